// Package layout reads and writes layout documents.
//
// A [Document] is the serialized outcome of one layout run: the engine
// result (categorization, positions, stacks, warnings and stats), the
// quality report and the model it was computed for. Two encodings are
// supported and are chosen by [Format]:
//
//   - json: indented JSON, the default and the format served over HTTP
//   - yaml: the same fields as YAML, easier to diff by hand
//
// A JSON document looks like this (abbreviated):
//
//	{
//	  "version": 1,
//	  "model": "Sales",
//	  "run_id": "6f0c...",
//	  "positions": [
//	    {"table": "Sales", "x": 650, "y": 150, "width": 200, "height": 180, ...}
//	  ],
//	  "quality": {"quality_score": 80, "rating": "EXCELLENT", ...}
//	}
//
// [Read] rejects documents with an unknown version and documents that
// position the same table twice, so a document that reads back cleanly can
// be applied to a diagram as is.
package layout
