package usecase

import "fmt"

// ErrPersistence indicates a user store failure inside a directory use case
var ErrPersistence = fmt.Errorf("directory use case persistence error")
