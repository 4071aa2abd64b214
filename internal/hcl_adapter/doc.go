// Package hcl_adapter reads and writes pipeline descriptions in HCL.
//
// A description is a sequence of stage blocks labelled with the filter kind
// and the stage name:
//
//	stage "box_blur" "soft" {
//	  input_0 = "GRAY"
//	  radius  = 2
//	}
//
// input_0 and input_1 name producer stages. Every other attribute is an
// opaque filter parameter and is kept as a cty.Value. Attribute expressions
// are evaluated without variables or functions, so parameters must be
// literals.
package hcl_adapter
