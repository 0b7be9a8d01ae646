package value

// Kind is the runtime dtype of a Value.
type Kind uint8

const (
	None Kind = iota
	Bool
	Int
	Long
	LongLong
	UInt
	ULong
	ULongLong
	Float
	Double
	LongDouble
	String
	List
	Set
	Dict
	Graph
	Edge
)

var kindNames = [...]string{
	None: "none", Bool: "bool",
	Int: "int", Long: "long", LongLong: "long_long",
	UInt: "uint", ULong: "ulong", ULongLong: "ulong_long",
	Float: "float", Double: "double", LongDouble: "long_double",
	String: "string", List: "list", Set: "set", Dict: "dict", Graph: "graph", Edge: "edge",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindByName resolves a dtype name such as "ulong_long".
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return None, false
}

func (k Kind) IsNumeric() bool { return k >= Int && k <= LongDouble }
func (k Kind) IsSigned() bool  { return k >= Int && k <= LongLong }
func (k Kind) IsUnsigned() bool {
	return k >= UInt && k <= ULongLong
}
func (k Kind) IsFloat() bool     { return k >= Float && k <= LongDouble }
func (k Kind) IsInteger() bool   { return k >= Int && k <= ULongLong }
func (k Kind) IsContainer() bool { return k >= List && k <= Graph }

// promote returns the dtype of a mixed numeric operation. Bool counts as int.
func promote(a, b Kind) Kind {
	if a == Bool {
		a = Int
	}
	if b == Bool {
		b = Int
	}
	if a > b {
		return a
	}
	return b
}
