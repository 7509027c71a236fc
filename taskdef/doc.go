// Package taskdef turns plain Go functions into dag tasks.
//
// A Definition pairs a function with a table of file templates:
//
//	files := map[string]string{
//	    "in table":  "{OUTPUT_DIR}/{project}/table.csv",
//	    "in| ref":   "/data/reference/{genome}.fa",
//	    "out plot":  "{OUTPUT_DIR}/{project}/plot.png",
//	}
//
// Keys starting with "in " or "in| " declare inputs and keys starting with
// "out " declare outputs; "in| " marks an input that lives outside the
// working directory. Templates are expanded against the configuration map
// passed to Instantiate and the results are used as written. Each declared name must match a string field tagged
// `file:"<name>"` in the definition's parameter struct.
package taskdef
