package contract

// Stmt is a statement of a function body.
type Stmt interface {
	stmt()
}

// Block is a statement sequence with an optional trailing expression (the
// block's value). A nil Tail means the block ends with a statement.
type Block struct {
	Stmts []Stmt
	Tail  Expr
}

// Let binds the value of Init to Name for the rest of the enclosing block.
type Let struct {
	Name string
	Init Expr
}

// If is both a statement (value discarded) and, as a block tail, an
// expression. Else is nil when there is no else branch; an else-if chain is an
// Else block whose Tail is another *If.
type If struct {
	Cond Expr
	Then *Block
	Else *Block
}

type Return struct {
	Value Expr
}

// ExprStmt is an expression evaluated for its side effects only.
type ExprStmt struct {
	X Expr
}

func (*Let) stmt()      {}
func (*If) stmt()       {}
func (*Return) stmt()   {}
func (*ExprStmt) stmt() {}

// Function is the implementation a contract is verified against.
type Function struct {
	Name      string
	Signature *Signature
	Body      *Block
	Contracts []Contract
}

func (f *Function) Requires() []Contract {
	return f.filter(KindRequires)
}

func (f *Function) Ensures() []Contract {
	return f.filter(KindEnsures)
}

func (f *Function) filter(kind Kind) []Contract {
	var result []Contract
	for _, c := range f.Contracts {
		if c.Kind == kind {
			result = append(result, c)
		}
	}
	return result
}
