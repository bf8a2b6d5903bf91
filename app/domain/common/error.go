package common

// Error carries a stable code identifying the call site alongside the cause.
type Error struct {
	Code string
	Err  error
}

type messageError string

func (m messageError) Error() string {
	return string(m)
}

func NewError(err error, code string) *Error {
	return &Error{
		Code: code,
		Err:  err,
	}
}

func NewErrorWithMessage(message string, code string) *Error {
	return &Error{
		Code: code,
		Err:  messageError(message),
	}
}

func (e *Error) GetCode() string {
	if e == nil {
		return ""
	}
	return e.Code
}

func (e *Error) GetMessage() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *Error) Error() string {
	return e.GetMessage()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
