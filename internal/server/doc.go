// Package server exposes the word list and the speech cache over HTTP for
// the study front end.
package server
