package models

import "time"

// Thing represents an AWS IoT thing
type Thing struct {
	Name       string
	Arn        string
	ThingId    string
	ThingType  string
	Attributes map[string]string
}

func (t Thing) GetType() ResourceKind { return ThingResource }
func (t Thing) GetName() string       { return t.Name }
func (t Thing) GetARN() string        { return t.Arn }

// ThingType represents an AWS IoT thing type
type ThingType struct {
	Name                 string
	Arn                  string
	ThingTypeId          string
	Description          string
	SearchableAttributes []string
	Deprecated           bool
	DeprecationDate      *time.Time
	CreationDate         time.Time
}

func (t ThingType) GetType() ResourceKind { return ThingTypeResource }
func (t ThingType) GetName() string       { return t.Name }
func (t ThingType) GetARN() string        { return t.Arn }
