/*

Process of compilation

Program Text ->
	parse (external front end) ->
Surface Syntax Tree (ast over names) ->
	resolve ->
Resolved Syntax Tree (ast over handles) ->
	codegen ->
Bytecode Function (instructions, register file size, constant pool) ->
	load and run (external vm)

*/
package compiler
