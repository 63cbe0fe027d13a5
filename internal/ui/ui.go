// Package ui declares the two capabilities the rendering surface lends to the core.
package ui

// Kind is the notification flavor.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// LoginPath is where unauthenticated viewers are sent.
const LoginPath = "/auth/login"

// Navigator moves the viewer to another surface.
type Navigator interface {
	Navigate(path string)
}

// Notifier shows a transient message to the viewer.
type Notifier interface {
	Notify(kind Kind, message string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(kind Kind, message string)

func (f NotifierFunc) Notify(kind Kind, message string) { f(kind, message) }
