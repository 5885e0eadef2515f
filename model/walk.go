package model

// Inspect traverses the tree rooted at n in depth-first order, calling f for
// each node. If f returns false, the children of that node are skipped.
// Bodies of anonymous methods and lambdas are visited like any other child.
func Inspect(n Node, f func(Node) bool) {
	if isNilNode(n) || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// Children returns the direct child nodes of n in source order. Nil children
// are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(cs ...Node) {
		for _, c := range cs {
			if !isNilNode(c) {
				out = append(out, c)
			}
		}
	}
	addExprs := func(es []Expression) {
		for _, e := range es {
			add(e)
		}
	}
	switch n := n.(type) {
	case *Binary:
		add(n.Left, n.Right)
	case *Unary:
		add(n.Operand)
	case *Cast:
		add(n.Expression)
	case *TryCast:
		add(n.Expression)
	case *CanCast:
		add(n.Expression)
	case *Assign:
		add(n.Target, n.Value)
	case *FieldReference:
		add(n.Target)
	case *PropertyReference:
		add(n.Target)
	case *PropertyIndexer:
		if n.Target != nil {
			add(n.Target)
		}
		addExprs(n.Indices)
	case *EventReference:
		add(n.Target)
	case *MethodReference:
		add(n.Target)
	case *MethodInvoke:
		if n.Method != nil {
			add(n.Method)
		}
		addExprs(n.Arguments)
	case *DelegateCreate:
		add(n.Target)
	case *DelegateInvoke:
		add(n.Target)
		addExprs(n.Arguments)
	case *ArrayCreate:
		addExprs(n.Dimensions)
		addExprs(n.Initializer)
	case *ArrayIndexer:
		add(n.Target)
		addExprs(n.Indices)
	case *ObjectCreate:
		addExprs(n.Arguments)
	case *Conditional:
		add(n.Condition, n.Then, n.Else)
	case *NullCoalescing:
		add(n.Left, n.Right)
	case *AddressOf:
		add(n.Expression)
	case *AddressDereference:
		add(n.Expression)
	case *AddressOut:
		add(n.Expression)
	case *AddressReference:
		add(n.Expression)
	case *StackAlloc:
		add(n.Count)
	case *AnonymousMethod:
		if n.Body != nil {
			add(n.Body)
		}
	case *Lambda:
		add(n.Body)

	case *Block:
		for _, s := range n.Statements {
			add(s)
		}
	case *ExpressionStatement:
		add(n.Expression)
	case *Condition:
		add(n.Condition)
		addBlock(&out, n.Then)
		addBlock(&out, n.Else)
	case *For:
		add(n.Initializer, n.Condition, n.Increment)
		addBlock(&out, n.Body)
	case *ForEach:
		if n.Variable != nil {
			add(n.Variable)
		}
		add(n.Collection)
		addBlock(&out, n.Body)
	case *While:
		add(n.Condition)
		addBlock(&out, n.Body)
	case *Do:
		addBlock(&out, n.Body)
		add(n.Condition)
	case *Switch:
		add(n.Expression)
		for _, c := range n.Cases {
			addExprs(c.Labels)
			addBlock(&out, c.Body)
		}
	case *TryCatchFinally:
		addBlock(&out, n.Try)
		for _, c := range n.Catches {
			addBlock(&out, c.Body)
		}
		addBlock(&out, n.Fault)
		addBlock(&out, n.Finally)
	case *Using:
		add(n.Expression)
		addBlock(&out, n.Body)
	case *Lock:
		add(n.Expression)
		addBlock(&out, n.Body)
	case *Fixed:
		add(n.Expression)
		addBlock(&out, n.Body)
	case *Throw:
		add(n.Expression)
	case *Return:
		add(n.Expression)
	case *Labeled:
		add(n.Statement)
	case *AttachEvent:
		if n.Event != nil {
			add(n.Event)
		}
		add(n.Listener)
	case *RemoveEvent:
		if n.Event != nil {
			add(n.Event)
		}
		add(n.Listener)
	case *MemoryCopy:
		add(n.Destination, n.Source, n.Length)
	case *MemoryInitialize:
		add(n.Destination, n.Value, n.Length)
	}
	return out
}

func addBlock(out *[]Node, b *Block) {
	if b != nil {
		*out = append(*out, b)
	}
}

// isNilNode catches both untyped nil and typed nil pointers stored in an
// interface.
func isNilNode(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Block:
		return v == nil
	case *PropertyReference:
		return v == nil
	case *MethodReference:
		return v == nil
	case *EventReference:
		return v == nil
	case *VariableDeclaration:
		return v == nil
	}
	return false
}
