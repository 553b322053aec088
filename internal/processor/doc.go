// Package processor contains the core application logic of wordspeak. It
// wires the configured speech provider chain, the word list loader and the
// speech cache together and drives the commands built on them: serving the
// study API, prefetching audio, cache statistics and Anki export.
package processor
