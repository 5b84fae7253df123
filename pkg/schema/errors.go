package schema

import (
	"fmt"

	"github.com/rs/zerolog"
)

// SpaceNotFoundError occurs when a space was not found.
type SpaceNotFoundError struct {
	error
	spaceName string
}

// NotFoundSpaceName is the name of the space not found.
func (err SpaceNotFoundError) NotFoundSpaceName() string {
	return err.spaceName
}

// MarshalZerologObject implements zerolog object marshalling.
func (err SpaceNotFoundError) MarshalZerologObject(e *zerolog.Event) {
	e.Err(err.error).Str("space", err.spaceName)
}

// DetailsMetadata returns the metadata for details for this error.
func (err SpaceNotFoundError) DetailsMetadata() map[string]string {
	return map[string]string{
		"space_name": err.spaceName,
	}
}

// TagNotFoundError occurs when a tag was not found in a space.
type TagNotFoundError struct {
	error
	spaceName string
	tagName   string
}

// SpaceName returns the space that was searched.
func (err TagNotFoundError) SpaceName() string {
	return err.spaceName
}

// NotFoundTagName returns the name of the tag not found.
func (err TagNotFoundError) NotFoundTagName() string {
	return err.tagName
}

// MarshalZerologObject implements zerolog object marshalling.
func (err TagNotFoundError) MarshalZerologObject(e *zerolog.Event) {
	e.Err(err.error).Str("space", err.spaceName).Str("tag", err.tagName)
}

// DetailsMetadata returns the metadata for details for this error.
func (err TagNotFoundError) DetailsMetadata() map[string]string {
	return map[string]string{
		"space_name": err.spaceName,
		"tag_name":   err.tagName,
	}
}

// EdgeNotFoundError occurs when an edge type was not found in a space.
type EdgeNotFoundError struct {
	error
	spaceName string
	edgeName  string
}

// SpaceName returns the space that was searched.
func (err EdgeNotFoundError) SpaceName() string {
	return err.spaceName
}

// NotFoundEdgeName returns the name of the edge type not found.
func (err EdgeNotFoundError) NotFoundEdgeName() string {
	return err.edgeName
}

// MarshalZerologObject implements zerolog object marshalling.
func (err EdgeNotFoundError) MarshalZerologObject(e *zerolog.Event) {
	e.Err(err.error).Str("space", err.spaceName).Str("edge", err.edgeName)
}

// DetailsMetadata returns the metadata for details for this error.
func (err EdgeNotFoundError) DetailsMetadata() map[string]string {
	return map[string]string{
		"space_name": err.spaceName,
		"edge_name":  err.edgeName,
	}
}

// PropertyNotFoundError occurs when a property was requested that the tag or edge type does not
// declare.
type PropertyNotFoundError struct {
	error
	typeName string
	propName string
}

// TypeName returns the tag or edge type that was searched.
func (err PropertyNotFoundError) TypeName() string {
	return err.typeName
}

// NotFoundPropertyName returns the name of the property not found.
func (err PropertyNotFoundError) NotFoundPropertyName() string {
	return err.propName
}

// MarshalZerologObject implements zerolog object marshalling.
func (err PropertyNotFoundError) MarshalZerologObject(e *zerolog.Event) {
	e.Err(err.error).Str("type", err.typeName).Str("property", err.propName)
}

// DetailsMetadata returns the metadata for details for this error.
func (err PropertyNotFoundError) DetailsMetadata() map[string]string {
	return map[string]string{
		"type_name":     err.typeName,
		"property_name": err.propName,
	}
}

// NewSpaceNotFoundErr constructs a new space not found error.
func NewSpaceNotFoundErr(spaceName string) error {
	return SpaceNotFoundError{
		error:     fmt.Errorf("space `%s` not found", spaceName),
		spaceName: spaceName,
	}
}

// NewTagNotFoundErr constructs a new tag not found error.
func NewTagNotFoundErr(spaceName, tagName string) error {
	return TagNotFoundError{
		error:     fmt.Errorf("tag `%s` not found in space `%s`", tagName, spaceName),
		spaceName: spaceName,
		tagName:   tagName,
	}
}

// NewEdgeNotFoundErr constructs a new edge not found error.
func NewEdgeNotFoundErr(spaceName, edgeName string) error {
	return EdgeNotFoundError{
		error:     fmt.Errorf("edge `%s` not found in space `%s`", edgeName, spaceName),
		spaceName: spaceName,
		edgeName:  edgeName,
	}
}

// NewPropertyNotFoundErr constructs a new property not found error.
func NewPropertyNotFoundErr(typeName, propName string) error {
	return PropertyNotFoundError{
		error:    fmt.Errorf("property `%s` not declared on `%s`", propName, typeName),
		typeName: typeName,
		propName: propName,
	}
}
