package ast

import "encoding/json"

// ArithmeticExpression is the tree evaluated by Eval queries; leaves are
// Value references (variables or literals), interior nodes are operators.
type ArithmeticExpression interface {
	isArithmeticExpression()
	MarshalJSON() ([]byte, error)
}

// Leaf wraps a Value so it satisfies ArithmeticExpression.
type Leaf struct {
	Value Value
}

func (Leaf) isArithmeticExpression() {}
func (l Leaf) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Value)
}

type binaryOp struct {
	opType      string
	Left, Right ArithmeticExpression
}

func (binaryOp) isArithmeticExpression() {}
func (b binaryOp) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string                `json:"@type"`
		Left  ArithmeticExpression  `json:"left"`
		Right ArithmeticExpression  `json:"right"`
	}{b.opType, b.Left, b.Right})
}

// Add, Sub, Mul, Div, and Pow build the corresponding binary arithmetic
// nodes. Named distinctly from the PathPattern constructors in path.go
// (Plus/Times), which build repetition patterns, not arithmetic.

func Add(l, r ArithmeticExpression) ArithmeticExpression { return binaryOp{"Plus", l, r} }
func Sub(l, r ArithmeticExpression) ArithmeticExpression { return binaryOp{"Minus", l, r} }
func Mul(l, r ArithmeticExpression) ArithmeticExpression { return binaryOp{"Times", l, r} }
func Div(l, r ArithmeticExpression) ArithmeticExpression { return binaryOp{"Divide", l, r} }
func Pow(l, r ArithmeticExpression) ArithmeticExpression { return binaryOp{"Exp", l, r} }

// Floor rounds Inner toward negative infinity.
type Floor struct {
	Inner ArithmeticExpression
}

func (Floor) isArithmeticExpression() {}
func (f Floor) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string               `json:"@type"`
		Inner ArithmeticExpression `json:"argument"`
	}{"Floor", f.Inner})
}

// Val lifts a Value into an ArithmeticExpression leaf.
func Val(v Value) ArithmeticExpression { return Leaf{Value: v} }
