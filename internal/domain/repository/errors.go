package repository

import "errors"

// ErrDuplicate is returned (wrapped) by repositories when a unique constraint is violated
var ErrDuplicate = errors.New("duplicate record")
