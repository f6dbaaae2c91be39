package gnb

import "fmt"

// Label names a maneuver class.
type Label = string

// Maneuver labels of the default label set.
const (
	LabelLeft  Label = "left"
	LabelKeep  Label = "keep"
	LabelRight Label = "right"
)

// NumLabels is the number of classes a Classifier distinguishes.
const NumLabels = 3

// LabelSet is the ordered set of class labels. The index of a label is its
// row in the parameter matrices and its rank when breaking score ties.
type LabelSet [NumLabels]Label

// DefaultLabels is the label set used when no WithLabels option is given.
var DefaultLabels = LabelSet{LabelLeft, LabelKeep, LabelRight}

// Index returns the position of label in the set, or -1.
func (ls LabelSet) Index(label Label) int {
	for i, l := range ls {
		if l == label {
			return i
		}
	}
	return -1
}

// Validate reports whether every label is non-empty and distinct.
func (ls LabelSet) Validate() error {
	for i, l := range ls {
		if l == "" {
			return fmt.Errorf("%w: label %d is empty", ErrInvalidInput, i)
		}
		for j := 0; j < i; j++ {
			if ls[j] == l {
				return fmt.Errorf("%w: label %q appears more than once", ErrInvalidInput, l)
			}
		}
	}
	return nil
}

// Strings returns the labels as a slice in index order.
func (ls LabelSet) Strings() []string {
	out := make([]string, len(ls))
	copy(out, ls[:])
	return out
}
