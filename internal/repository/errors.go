package repository

import "errors"

var (
	ErrStallNotFound  = errors.New("stall not found")
	ErrItemNotFound   = errors.New("menu item not found")
	ErrExtraNotFound  = errors.New("extra not found in menu item")
	ErrOptionNotFound = errors.New("option not found in customization")
)
