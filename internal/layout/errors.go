package layout

import "errors"

var (
	ErrMissingContainerSize   = errors.New("percent size needs a parent with a concrete size on that axis")
	ErrMissingBackgroundImage = errors.New("fit-background-image size needs a background image")
	ErrImageLoadFailed        = errors.New("background image could not be loaded")
	ErrAlreadyAttached        = errors.New("node is already attached to a parent")
	ErrLeafNode               = errors.New("text nodes cannot have children")
	ErrCyclicTree             = errors.New("attaching node would create a cycle")
	ErrNotRoot                = errors.New("prepare must be called on the root node")
	ErrReentrantPrepare       = errors.New("prepare called while the tree is being prepared")
	ErrNotPrepared            = errors.New("tree has not been prepared")
)
