// crous - CROUS structured value CLI
//
// Usage:
//
//	crous encode [-f text|json|yaml|cbor] [file]   Encode a document to FLUX binary
//	crous decode [-t text|json|yaml|cbor] [file]   Decode FLUX binary
//	crous fmt [--indent N] [file]                  Reformat CROUS text
//	crous inspect [file]                           Print a FLUX document outline
//
// If no file is given, reads from stdin.
package main

import "github.com/crous-format/crous/cmd/crous/cmd"

func main() {
	cmd.Execute()
}
