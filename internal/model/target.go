// internal/model/target.go
package model

// Target is one recipient of a dispatch request, as selected in the UI.
type Target struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}
