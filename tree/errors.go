package tree

import "errors"

// ErrNotReadyToPredict is returned by Node.Predict when the node has never
// been updated (n == 0). When a split node descends into such a child, it
// catches the error and falls back to its own leaf distribution instead;
// only an untrained root returns it to Tree.Predict's caller.
var ErrNotReadyToPredict = errors.New("tree: node is not ready to predict (n == 0)")

// ConfigError reports a Tree constructed with an invalid or inconsistent
// configuration: a metric that does not match the class attribute's type,
// or a missing-value policy naming an attribute type it cannot apply to.
// Update also returns it for a row that lacks the class attribute.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "tree: config: " + e.Reason
}

// MissingPolicyError is returned at predict time when the split-attribute
// value of a query row was never observed during training and either no
// missing-value policy is installed for that attribute, or the installed
// policy cannot resolve the value.
type MissingPolicyError struct {
	Attribute string
	Reason    string
}

func (e *MissingPolicyError) Error() string {
	return "tree: missing value policy: " + e.Attribute + ": " + e.Reason
}
