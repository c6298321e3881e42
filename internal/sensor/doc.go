// Package sensor provides the adapters that each query one fact about the
// system (volume, network, battery, memory, load, time, mail) and render it
// as a short annotated string. Adapters never fail: any error maps to an
// empty string or a placeholder glyph.
package sensor
