package models

import "time"

// KeyElement is one element of a DynamoDB key schema
type KeyElement struct {
	AttributeName string
	AttributeType string // "S", "N" or "B"
	KeyType       string // "HASH" or "RANGE"
}

// Table represents a DynamoDB table description
type Table struct {
	Name         string
	Arn          string
	TableId      string
	Status       string
	BillingMode  string
	KeySchema    []KeyElement
	ItemCount    int64
	SizeBytes    int64
	CreationDate time.Time
}

func (t Table) GetType() ResourceKind { return TableResource }
func (t Table) GetName() string       { return t.Name }
func (t Table) GetARN() string        { return t.Arn }
