package core

import "errors"

var ErrNullValue = errors.New("null value has no text form")

// Converter exposes the engine client's value-to-text routines. Row
// decoding goes through it so that text forms match what the engine's own
// tools print.
type Converter interface {
	DecimalToText(d Decimal) (string, error)
	Int8ToText(v Int8) (string, error)
	FormatDate(days int32, pattern string) (string, error)
	ParseDate(text, pattern string) (int32, error)
	DatetimeToText(v TimeValue) (string, error)
	IntervalToText(v TimeValue) (string, error)
}

// StdConverter implements Converter with the routines in this package.
type StdConverter struct{}

var _ Converter = StdConverter{}

func (StdConverter) DecimalToText(d Decimal) (string, error) {
	if d.IsNull() {
		return "", ErrNullValue
	}
	return d.String(), nil
}

func (StdConverter) Int8ToText(v Int8) (string, error) {
	if v.Sign == Int8Null {
		return "", ErrNullValue
	}
	return v.String(), nil
}

func (StdConverter) FormatDate(days int32, pattern string) (string, error) {
	return FormatDate(days, pattern)
}

func (StdConverter) ParseDate(text, pattern string) (int32, error) {
	return ParseDate(text, pattern)
}

func (StdConverter) DatetimeToText(v TimeValue) (string, error) {
	return v.DatetimeString(), nil
}

func (StdConverter) IntervalToText(v TimeValue) (string, error) {
	return v.IntervalString(), nil
}
