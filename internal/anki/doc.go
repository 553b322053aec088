// Package anki exports word lists with their cached pronunciation audio as
// Anki import files: a plain CSV or a self-contained .apkg package.
package anki
