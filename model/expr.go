package model

// Node is implemented by every expression and statement.
type Node interface {
	node()
}

// Expression is a closed set of typed value-producing nodes.
type Expression interface {
	Node
	// StaticType is the resolved type the input model assigns to the node.
	StaticType() *TypeReference
	expr()
}

// Typed carries the resolved static type of an expression.
type Typed struct {
	Type *TypeReference
}

func (t Typed) StaticType() *TypeReference { return t.Type }
func (Typed) node()                        {}
func (Typed) expr()                        {}

// Char is a UTF-16 code unit literal value.
type Char uint16

// Decimal is a decimal literal kept in its textual form.
type Decimal string

// Literal holds a constant. Value is nil, bool, Char, int8..uint64, float32,
// float64, Decimal or string.
type Literal struct {
	Typed
	Value any
}

// BinaryOperator enumerates binary operators.
type BinaryOperator int

const (
	Add BinaryOperator = iota
	Subtract
	Multiply
	Divide
	Modulus
	ShiftLeft
	ShiftRight
	IdentityEquality
	IdentityInequality
	ValueEquality
	ValueInequality
	BitwiseOr
	BitwiseAnd
	BitwiseExclusiveOr
	BooleanOr
	BooleanAnd
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
)

var binaryTokens = [...]string{
	Add:                "+",
	Subtract:           "-",
	Multiply:           "*",
	Divide:             "/",
	Modulus:            "%",
	ShiftLeft:          "<<",
	ShiftRight:         ">>",
	IdentityEquality:   "==",
	IdentityInequality: "!=",
	ValueEquality:      "==",
	ValueInequality:    "!=",
	BitwiseOr:          "|",
	BitwiseAnd:         "&",
	BitwiseExclusiveOr: "^",
	BooleanOr:          "||",
	BooleanAnd:         "&&",
	LessThan:           "<",
	LessThanOrEqual:    "<=",
	GreaterThan:        ">",
	GreaterThanOrEqual: ">=",
}

// Token returns the source token of op.
func (op BinaryOperator) Token() string {
	if int(op) < len(binaryTokens) {
		return binaryTokens[op]
	}
	return "?"
}

// IsComparison reports whether op yields a boolean from two operands.
func (op BinaryOperator) IsComparison() bool {
	switch op {
	case IdentityEquality, IdentityInequality, ValueEquality, ValueInequality,
		LessThan, LessThanOrEqual, GreaterThan, GreaterThanOrEqual:
		return true
	}
	return false
}

// IsShift reports whether op is a shift.
func (op BinaryOperator) IsShift() bool { return op == ShiftLeft || op == ShiftRight }

// Binary applies a binary operator.
type Binary struct {
	Typed
	Left     Expression
	Operator BinaryOperator
	Right    Expression
}

// UnaryOperator enumerates unary operators.
type UnaryOperator int

const (
	Negate UnaryOperator = iota
	BooleanNot
	BitwiseNot
	PreIncrement
	PreDecrement
	PostIncrement
	PostDecrement
)

// Unary applies a unary operator.
type Unary struct {
	Typed
	Operator UnaryOperator
	Operand  Expression
}

// Cast converts Expression to TargetType.
type Cast struct {
	Typed
	TargetType *TypeReference
	Expression Expression
}

// TryCast is a checked reference conversion yielding null on failure.
type TryCast struct {
	Typed
	TargetType *TypeReference
	Expression Expression
}

// CanCast tests whether Expression is an instance of TargetType.
type CanCast struct {
	Typed
	TargetType *TypeReference
	Expression Expression
}

// Assign stores Value into Target.
type Assign struct {
	Typed
	Target Expression
	Value  Expression
}

// FieldReference reads a field. Target is nil for static fields.
type FieldReference struct {
	Typed
	Target Expression
	Field  *FieldRef
}

// PropertyReference reads a property. Target is nil for static properties.
type PropertyReference struct {
	Typed
	Target   Expression
	Property *PropertyRef
}

// PropertyIndexer applies index arguments to an indexed property.
type PropertyIndexer struct {
	Typed
	Target  *PropertyReference
	Indices []Expression
}

// EventReference names an event on Target.
type EventReference struct {
	Typed
	Target Expression
	Event  *EventRef
}

// MethodReference names a method on Target.
type MethodReference struct {
	Typed
	Target Expression
	Method *MethodRef
}

// MethodInvoke calls Method with Arguments.
type MethodInvoke struct {
	Typed
	Method    *MethodReference
	Arguments []Expression
}

// DelegateCreate binds Method on Target to a delegate of DelegateType.
type DelegateCreate struct {
	Typed
	DelegateType *TypeReference
	Target       Expression
	Method       *MethodRef
}

// DelegateInvoke calls a delegate value.
type DelegateInvoke struct {
	Typed
	Target    Expression
	Arguments []Expression
	// Parameters are the Invoke parameter types of a delegate declared
	// outside the module. Delegates declared in the module are resolved
	// through their declaration instead.
	Parameters []*TypeReference
}

// ArrayCreate allocates an array, optionally with an initializer.
type ArrayCreate struct {
	Typed
	ElementType *TypeReference
	Dimensions  []Expression
	Initializer []Expression
}

// ArrayIndexer indexes into an array.
type ArrayIndexer struct {
	Typed
	Target  Expression
	Indices []Expression
}

// ObjectCreate constructs an instance.
type ObjectCreate struct {
	Typed
	Constructor *MethodRef
	Arguments   []Expression
}

// Conditional is the ternary operator.
type Conditional struct {
	Typed
	Condition Expression
	Then      Expression
	Else      Expression
}

// NullCoalescing yields Left unless it is null.
type NullCoalescing struct {
	Typed
	Left  Expression
	Right Expression
}

// AddressOf takes the unmanaged address of Expression.
type AddressOf struct {
	Typed
	Expression Expression
}

// AddressDereference reads through a pointer.
type AddressDereference struct {
	Typed
	Expression Expression
}

// AddressOut passes Expression as an out argument.
type AddressOut struct {
	Typed
	Expression Expression
}

// AddressReference passes Expression as a ref argument.
type AddressReference struct {
	Typed
	Expression Expression
}

// StackAlloc allocates Count elements on the stack.
type StackAlloc struct {
	Typed
	ElementType *TypeReference
	Count       Expression
}

// SizeOf yields the unmanaged size of Operand.
type SizeOf struct {
	Typed
	Operand *TypeReference
}

// TypeOf yields the runtime type object of Operand.
type TypeOf struct {
	Typed
	Operand *TypeReference
}

// DefaultValue yields the default value of Operand.
type DefaultValue struct {
	Typed
	Operand *TypeReference
}

// This is the current instance.
type This struct {
	Typed
}

// Base is the current instance viewed as its base type.
type Base struct {
	Typed
}

// VariableReference reads a local.
type VariableReference struct {
	Typed
	Variable *Variable
}

// VariableDeclaration declares a local in expression position.
type VariableDeclaration struct {
	Typed
	Variable *Variable
}

// ArgumentReference reads a parameter.
type ArgumentReference struct {
	Typed
	Parameter *ParameterDecl
}

// TypeReferenceExpression names a type as the target of a static access.
type TypeReferenceExpression struct {
	Typed
	Operand *TypeReference
}

// AnonymousMethod is an inline delegate body.
type AnonymousMethod struct {
	Typed
	DelegateType *TypeReference
	Parameters   []*ParameterDecl
	ReturnType   *TypeReference
	Body         *Block
}

// Lambda is an expression-bodied closure.
type Lambda struct {
	Typed
	Parameters []*Variable
	Body       Expression
}
