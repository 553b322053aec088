// Package speechcache turns text into cached MP3 files. Each distinct text
// is synthesized at most once; later requests are served from the cache
// directory.
package speechcache
