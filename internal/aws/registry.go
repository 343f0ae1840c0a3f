package aws

import (
	"context"

	"cloudfacade/internal/ledger"
	"cloudfacade/internal/models"
)

// File stems of the default ledgers under the home directory
const (
	ThingLedgerStem    = "all_things"
	InstanceLedgerStem = "all_instances"
)

// ThingRegistry creates and deletes things through the facade and keeps a
// local ordered record of them. The record is only updated on success and
// is never reconciled with the provider. Not safe for concurrent use.
type ThingRegistry struct {
	facade *Facade
	things *ledger.Ledger[models.Thing]
}

// NewThingRegistry returns a registry with an empty ledger
func NewThingRegistry(f *Facade) *ThingRegistry {
	return &ThingRegistry{facade: f, things: ledger.New[models.Thing]()}
}

// LoadThingRegistry returns a registry seeded from a ledger file
func LoadThingRegistry(f *Facade, path string) (*ThingRegistry, error) {
	things, err := ledger.Load[models.Thing](path)
	if err != nil {
		return nil, err
	}
	return &ThingRegistry{facade: f, things: things}, nil
}

// Create registers a thing and records it
func (r *ThingRegistry) Create(ctx context.Context, in CreateThingInput) (models.Thing, error) {
	thing, err := r.facade.CreateThing(ctx, in)
	if err != nil {
		return models.Thing{}, err
	}
	r.things.Put(thing.Name, thing)
	return thing, nil
}

// Delete deletes a thing and drops it from the record
func (r *ThingRegistry) Delete(ctx context.Context, name string) error {
	if err := r.facade.DeleteThing(ctx, name); err != nil {
		return err
	}
	r.things.Delete(name)
	return nil
}

// Get returns the recorded thing
func (r *ThingRegistry) Get(name string) (models.Thing, bool) {
	return r.things.Get(name)
}

// Names returns the recorded thing names in creation order
func (r *ThingRegistry) Names() []string {
	return r.things.Names()
}

// Save persists the record to path
func (r *ThingRegistry) Save(path string) error {
	return r.things.Save(path)
}

// InstanceRegistry launches and terminates instances through the facade and
// keeps an ordered record keyed by instance name. Not safe for concurrent use.
type InstanceRegistry struct {
	facade    *Facade
	instances *ledger.Ledger[models.Instance]
}

// NewInstanceRegistry returns a registry with an empty ledger
func NewInstanceRegistry(f *Facade) *InstanceRegistry {
	return &InstanceRegistry{facade: f, instances: ledger.New[models.Instance]()}
}

// LoadInstanceRegistry returns a registry seeded from a ledger file
func LoadInstanceRegistry(f *Facade, path string) (*InstanceRegistry, error) {
	instances, err := ledger.Load[models.Instance](path)
	if err != nil {
		return nil, err
	}
	return &InstanceRegistry{facade: f, instances: instances}, nil
}

// Get returns the recorded instance
func (r *InstanceRegistry) Get(name string) (models.Instance, bool) {
	return r.instances.Get(name)
}

// Launch launches one instance and records it under its name
func (r *InstanceRegistry) Launch(ctx context.Context, in LaunchInput, opts ...CallOption) (models.Instance, error) {
	inst, err := r.facade.LaunchInstance(ctx, in, opts...)
	if err != nil {
		return models.Instance{}, err
	}
	r.instances.Put(inst.GetName(), inst)
	return inst, nil
}

// Terminate terminates the instance recorded under name
func (r *InstanceRegistry) Terminate(ctx context.Context, name string, opts ...CallOption) error {
	inst, ok := r.instances.Get(name)
	if !ok {
		return r.facade.fail(&OpError{Kind: DoesNotExist, Resource: models.InstanceResource, Name: name, Operation: "terminate"})
	}
	if _, err := r.facade.TerminateInstances(ctx, []string{inst.InstanceId}, opts...); err != nil {
		return err
	}
	r.instances.Delete(name)
	return nil
}

// Names returns the recorded instance names in launch order
func (r *InstanceRegistry) Names() []string {
	return r.instances.Names()
}

// Save persists the record to path
func (r *InstanceRegistry) Save(path string) error {
	return r.instances.Save(path)
}
