// Package tmdl reads the parts of a TMDL semantic model that the layout
// engine needs.
//
// A Power BI project stores its model under a "<name>.SemanticModel"
// folder:
//
//	Sales.SemanticModel/
//	  definition/
//	    relationships.tmdl
//	    tables/
//	      Sales.tmdl
//	      Product.tmdl
//
// [Find] locates the definition folder from the project folder, the
// SemanticModel folder or the definition folder itself. [Load] reads the
// relationships, the table names and the structural hints of every table.
// Table files are parsed concurrently.
//
// Only the handful of properties the engine consults are read; everything
// else in the files is skipped.
package tmdl
