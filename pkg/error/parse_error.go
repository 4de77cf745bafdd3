package error

type ParseError string

func (err ParseError) Error() string {
	return string(err)
}

func (err ParseError) ErrCode() string {
	return "PARSE_ERROR"
}
