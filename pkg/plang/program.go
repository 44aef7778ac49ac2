package plang

import "github.com/plang-lang/plang/internal/ast"

// Program is source that has been lexed, parsed and validated once,
// ready to Run any number of times without repeating the front end.
type Program struct {
	ast    *ast.Program
	source string
	file   string
}
