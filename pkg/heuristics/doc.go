// Package heuristics holds every tunable constant of the layout engine.
//
// A [Profile] groups the naming vocabularies used to classify tables, the
// score weights of fact detection, the limits of extension detection and the
// geometry of the generated diagram. [Default] returns the built-in profile;
// [Load] decodes a TOML file over it so a file only needs the keys it
// changes:
//
//	[scoring]
//	connection_fact_threshold = 4
//
//	[geometry]
//	table_width = 240
//
// Profiles are plain values. The engine never mutates the profile it is
// given, so one profile can be shared by concurrent runs.
package heuristics
