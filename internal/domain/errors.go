package domain

import (
	"errors"
	"fmt"
)

var (
	ErrResultCountNotFound = errors.New("result count not found on listing page")
	ErrNavParamNotFound    = errors.New("nav param marker N- not found in brand url")
	ErrSearchFailed        = errors.New("product search returned errors or no search model")
)

type BrandNotFoundError struct {
	Brand string
	URL   string
}

func (e *BrandNotFoundError) Error() string {
	return fmt.Sprintf("brand %q not found on listing page %s", e.Brand, e.URL)
}
