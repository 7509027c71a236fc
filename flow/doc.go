// Package flow reads YAML flow files and compiles them into dag tasks that
// run shell commands.
//
//	name: example
//	vars:
//	  OUTPUT_DIR: ./working
//	include: [shared]
//	tasks:
//	  - name: step1
//	    in: "{OUTPUT_DIR}/foo.csv"
//	    out: "{OUTPUT_DIR}/file1.csv"
//	    run: cp $in $out
//	  - name: group
//	    steps:
//	      - name: step2
//	        in: "{OUTPUT_DIR}/file1.csv"
//	        out: "{OUTPUT_DIR}/file2.csv"
//	        run: sort ${in[0]} > $out
//
// Files are checked against an embedded JSON Schema before decoding. Each
// include becomes a composite task named after the included flow.
package flow
