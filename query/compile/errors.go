package compile

import "fmt"

// UnsupportedFeatureError reports a statement that uses a feature the
// target dialect cannot express. It is always fatal and never retried;
// no partial SQL is emitted.
type UnsupportedFeatureError struct {
	Dialect Dialect
	Feature string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("%s: %s is not supported by this backend", e.Dialect, e.Feature)
}

func unsupported(d Dialect, feature string) error {
	return &UnsupportedFeatureError{Dialect: d, Feature: feature}
}
