package model

// Statement is a closed set of statement nodes.
type Statement interface {
	Node
	stmt()
}

type stmtNode struct{}

func (stmtNode) node() {}
func (stmtNode) stmt() {}

// Block is a sequence of statements.
type Block struct {
	stmtNode
	Statements []Statement
}

// ExpressionStatement evaluates an expression for its effects.
type ExpressionStatement struct {
	stmtNode
	Expression Expression
}

// Condition is an if statement. Else may be nil.
type Condition struct {
	stmtNode
	Condition Expression
	Then      *Block
	Else      *Block
}

// For is a three-clause loop. Any clause may be nil.
type For struct {
	stmtNode
	Initializer Statement
	Condition   Expression
	Increment   Statement
	Body        *Block
}

// ForEach iterates Collection binding Variable.
type ForEach struct {
	stmtNode
	Variable   *VariableDeclaration
	Collection Expression
	Body       *Block
}

// While is a pre-tested loop.
type While struct {
	stmtNode
	Condition Expression
	Body      *Block
}

// Do is a post-tested loop.
type Do struct {
	stmtNode
	Condition Expression
	Body      *Block
}

// SwitchCase is one arm of a switch. A default arm may also carry labels.
type SwitchCase struct {
	Labels  []Expression
	Default bool
	Body    *Block
}

// Switch dispatches on Expression.
type Switch struct {
	stmtNode
	Expression Expression
	Cases      []*SwitchCase
}

// CatchClause handles exceptions of Type. Variable may be nil.
type CatchClause struct {
	Type     *TypeReference
	Variable *Variable
	Body     *Block
}

// TryCatchFinally is a protected region. Fault runs only when the try block
// exits by exception.
type TryCatchFinally struct {
	stmtNode
	Try     *Block
	Catches []*CatchClause
	Fault   *Block
	Finally *Block
}

// Using disposes the resource produced by Expression after Body.
type Using struct {
	stmtNode
	Expression Expression
	Body       *Block
}

// Lock holds the monitor of Expression for Body.
type Lock struct {
	stmtNode
	Expression Expression
	Body       *Block
}

// Fixed pins Expression into Variable for Body.
type Fixed struct {
	stmtNode
	Variable   *Variable
	Expression Expression
	Body       *Block
}

// Throw raises Expression, or rethrows when it is nil.
type Throw struct {
	stmtNode
	Expression Expression
}

// Return leaves the method. Expression is nil in void methods.
type Return struct {
	stmtNode
	Expression Expression
}

// Goto jumps to Label.
type Goto struct {
	stmtNode
	Label string
}

// Labeled defines Label before Statement, which may be nil.
type Labeled struct {
	stmtNode
	Label     string
	Statement Statement
}

// Break leaves the innermost loop or switch.
type Break struct {
	stmtNode
}

// Continue restarts the innermost loop.
type Continue struct {
	stmtNode
}

// AttachEvent subscribes Listener to Event.
type AttachEvent struct {
	stmtNode
	Event    *EventReference
	Listener Expression
}

// RemoveEvent unsubscribes Listener from Event.
type RemoveEvent struct {
	stmtNode
	Event    *EventReference
	Listener Expression
}

// Comment is a source comment carried through the model.
type Comment struct {
	stmtNode
	Text string
}

// MemoryCopy copies Length bytes from Source to Destination.
type MemoryCopy struct {
	stmtNode
	Destination Expression
	Source      Expression
	Length      Expression
}

// MemoryInitialize fills Length bytes at Destination with Value.
type MemoryInitialize struct {
	stmtNode
	Destination Expression
	Value       Expression
	Length      Expression
}
