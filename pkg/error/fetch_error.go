package error

type FetchError string

func (err FetchError) Error() string {
	return string(err)
}

func (err FetchError) ErrCode() string {
	return "FETCH_ERROR"
}
