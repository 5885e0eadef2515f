package compiler

// csharpKeywords are reserved in C#; identifiers spelled like them get an
// '@' prefix.
var csharpKeywords = keywordSet(
	"abstract", "as", "base", "bool", "break", "byte", "case", "catch",
	"char", "checked", "class", "const", "continue", "decimal", "default",
	"delegate", "do", "double", "else", "enum", "event", "explicit",
	"extern", "false", "finally", "fixed", "float", "for", "foreach", "goto",
	"if", "implicit", "in", "int", "interface", "internal", "is", "lock",
	"long", "namespace", "new", "null", "object", "operator", "out",
	"override", "params", "private", "protected", "public", "readonly",
	"ref", "return", "sbyte", "sealed", "short", "sizeof", "stackalloc",
	"static", "string", "struct", "switch", "this", "throw", "true", "try",
	"typeof", "uint", "ulong", "unchecked", "unsafe", "ushort", "using",
	"virtual", "void", "volatile", "while",
)

// cppKeywords are reserved in C++ or taken by the runtime's macros;
// identifiers spelled like them get a '_' suffix.
var cppKeywords = keywordSet(
	"alignas", "alignof", "and", "and_eq", "asm", "auto", "bitand", "bitor",
	"bool", "break", "case", "catch", "char", "char16_t", "char32_t",
	"class", "compl", "const", "constexpr", "const_cast", "continue",
	"decltype", "default", "delete", "do", "double", "dynamic_cast", "else",
	"enum", "explicit", "export", "extern", "false", "float", "for",
	"friend", "goto", "if", "inline", "int", "long", "mutable", "namespace",
	"new", "noexcept", "not", "not_eq", "nullptr", "operator", "or",
	"or_eq", "private", "protected", "public", "register",
	"reinterpret_cast", "return", "short", "signed", "sizeof", "static",
	"static_assert", "static_cast", "struct", "switch", "template", "this",
	"thread_local", "throw", "true", "try", "typedef", "typeid", "typename",
	"union", "unsigned", "using", "virtual", "void", "volatile", "wchar_t",
	"while", "xor", "xor_eq", "NULL", "min", "max",
)

func keywordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// binaryOperatorTokens maps user-defined binary operator method names to
// their C# operator token.
var binaryOperatorTokens = map[string]string{
	"op_Addition":           "+",
	"op_Subtraction":        "-",
	"op_Multiply":           "*",
	"op_Division":           "/",
	"op_Modulus":            "%",
	"op_BitwiseAnd":         "&",
	"op_BitwiseOr":          "|",
	"op_ExclusiveOr":        "^",
	"op_LeftShift":          "<<",
	"op_RightShift":         ">>",
	"op_Equality":           "==",
	"op_Inequality":         "!=",
	"op_LessThan":           "<",
	"op_LessThanOrEqual":    "<=",
	"op_GreaterThan":        ">",
	"op_GreaterThanOrEqual": ">=",
}

// unaryOperatorTokens maps user-defined unary operator method names to
// their C# operator token.
var unaryOperatorTokens = map[string]string{
	"op_UnaryNegation":  "-",
	"op_UnaryPlus":      "+",
	"op_LogicalNot":     "!",
	"op_OnesComplement": "~",
	"op_Increment":      "++",
	"op_Decrement":      "--",
	"op_True":           "true",
	"op_False":          "false",
}

// conversionOperators are the user-defined conversion method names.
var conversionOperators = map[string]string{
	"op_Implicit": "implicit",
	"op_Explicit": "explicit",
}

// csharpPrimitives spells the predefined types with their C# keywords.
var csharpPrimitives = map[string]string{
	"System.Void":    "void",
	"System.Boolean": "bool",
	"System.Char":    "char",
	"System.SByte":   "sbyte",
	"System.Byte":    "byte",
	"System.Int16":   "short",
	"System.UInt16":  "ushort",
	"System.Int32":   "int",
	"System.UInt32":  "uint",
	"System.Int64":   "long",
	"System.UInt64":  "ulong",
	"System.Single":  "float",
	"System.Double":  "double",
	"System.Decimal": "decimal",
	"System.String":  "string",
	"System.Object":  "object",
}

// cppPrimitives spells the predefined types over the C++ runtime.
var cppPrimitives = map[string]string{
	"System.Void":    "void",
	"System.Boolean": "bool",
	"System.Char":    "wchar_t",
	"System.SByte":   "std::int8_t",
	"System.Byte":    "std::uint8_t",
	"System.Int16":   "std::int16_t",
	"System.UInt16":  "std::uint16_t",
	"System.Int32":   "std::int32_t",
	"System.UInt32":  "std::uint32_t",
	"System.Int64":   "std::int64_t",
	"System.UInt64":  "std::uint64_t",
	"System.IntPtr":  "std::intptr_t",
	"System.UIntPtr": "std::uintptr_t",
	"System.Single":  "float",
	"System.Double":  "double",
	"System.Decimal": "::System::Decimal",
	"System.String":  "::System::String*",
	"System.Object":  "::System::Object*",
}
