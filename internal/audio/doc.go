// Package audio provides speech synthesis providers: an external script
// process, espeak-ng and OpenAI TTS, plus fallback and circuit breaker
// wrappers around them.
package audio
