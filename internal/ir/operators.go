package ir

// UnaryOperator is the operator of a UnaryOperation
type UnaryOperator uint8

const (
	PreInc UnaryOperator = iota
	PreDec
	PostInc
	PostDec
	LogicalNot
	BitwiseNot
	Plus
	Minus
)

var unaryTokens = [...]string{"++", "--", "++", "--", "!", "~", "+", "-"}

// UnaryOperators lists every unary operator, for uniform choice.
var UnaryOperators = []UnaryOperator{PreInc, PreDec, PostInc, PostDec, LogicalNot, BitwiseNot, Plus, Minus}

// PureUnaryOperators lists the unary operators that leave their operand
// unchanged.
var PureUnaryOperators = []UnaryOperator{LogicalNot, BitwiseNot, Plus, Minus}

func (op UnaryOperator) String() string { return unaryTokens[op] }

// IsPostfix reports whether the operator is written after its operand.
func (op UnaryOperator) IsPostfix() bool { return op == PostInc || op == PostDec }

// Mutates reports whether the operator assigns to its operand.
func (op UnaryOperator) Mutates() bool { return op <= PostDec }

// BinaryOperator is the operator of a BinaryOperation
type BinaryOperator uint8

const (
	Add BinaryOperator = iota
	Sub
	Mul
	Div
	Mod
	BitAnd
	BitOr
	LogicAnd
	LogicOr
	Xor
	LShift
	RShift
	UnRShift
	Exp
)

var binaryTokens = [...]string{"+", "-", "*", "/", "%", "&", "|", "&&", "||", "^", "<<", ">>", ">>>", "**"}

// BinaryOperators lists every binary operator, for uniform choice.
var BinaryOperators = []BinaryOperator{Add, Sub, Mul, Div, Mod, BitAnd, BitOr, LogicAnd, LogicOr, Xor, LShift, RShift, UnRShift, Exp}

func (op BinaryOperator) String() string { return binaryTokens[op] }

// Comparator is the operator of a Compare
type Comparator uint8

const (
	Equal Comparator = iota
	StrictEqual
	NotEqual
	StrictNotEqual
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
)

var compareTokens = [...]string{"==", "===", "!=", "!==", "<", "<=", ">", ">="}

// Comparators lists every comparator, for uniform choice.
var Comparators = []Comparator{Equal, StrictEqual, NotEqual, StrictNotEqual, LessThan, LessThanOrEqual, GreaterThan, GreaterThanOrEqual}

func (op Comparator) String() string { return compareTokens[op] }
