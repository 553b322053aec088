package internal

// Version is the wordspeak release version
const Version = "0.3.0"
