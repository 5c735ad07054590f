package core

import (
	"context"
	"fmt"
)

// Instance is one entity of a synthesized resource type. It is not safe for concurrent use.
// Its representation mirrors the wire format minus the policy envelope.
type Instance struct {
	resourceType   *ResourceType
	representation Record
}

// Type returns the resource type the instance belongs to.
func (inst *Instance) Type() *ResourceType {
	return inst.resourceType
}

// Representation returns the live representation. Mutations are visible to the instance.
func (inst *Instance) Representation() Record {
	return inst.representation
}

// SetRepresentation replaces the whole representation.
func (inst *Instance) SetRepresentation(representation Record) {
	if representation == nil {
		representation = Record{}
	}
	inst.representation = representation
}

// region walks path from the representation root and returns the map found there.
// With create set, missing maps along the path are created.
func (inst *Instance) region(path []string, create bool) Record {
	current := inst.representation
	if current == nil {
		if !create {
			return nil
		}
		current = Record{}
		inst.representation = current
	}
	for _, key := range path {
		next := asRecord(current[key])
		if next == nil {
			if !create {
				return nil
			}
			next = Record{}
			current[key] = next
		}
		current = next
	}
	return current
}

func (inst *Instance) attributes(create bool) Record {
	return inst.region(inst.resourceType.config.ModelAttributesPath, create)
}

func (inst *Instance) relationships(create bool) Record {
	return inst.region(inst.resourceType.config.ModelRelationshipsPath, create)
}

// GetAttribute returns a declared attribute. Undeclared names are an error.
func (inst *Instance) GetAttribute(name string) (any, error) {
	if _, ok := inst.resourceType.descriptor.Attributes[name]; !ok {
		return nil, &RuntimeError{Op: "get " + name, Message: fmt.Sprintf("%s has no attribute '%s'", inst.resourceType.Name(), name)}
	}
	return inst.attributes(false)[name], nil
}

// SetAttribute writes a declared attribute. The id is owned by the backend.
func (inst *Instance) SetAttribute(name string, value any) error {
	if name == ArgID {
		return &RuntimeError{Op: "set id", Message: "id should only be set by the backend"}
	}
	if _, ok := inst.resourceType.descriptor.Attributes[name]; !ok {
		return &RuntimeError{Op: "set " + name, Message: fmt.Sprintf("%s has no attribute '%s'", inst.resourceType.Name(), name)}
	}
	inst.attributes(true)[name] = value
	return nil
}

// Attributes returns a copy of the attributes region.
func (inst *Instance) Attributes() Record {
	return copyMap(inst.attributes(false))
}

// GetRelationship returns the raw relationship region for rel, or nil.
func (inst *Instance) GetRelationship(rel string) any {
	return inst.relationships(false)[rel]
}

// SetRelationship replaces the relationship region for rel.
func (inst *Instance) SetRelationship(rel string, value Record) {
	inst.relationships(true)[rel] = value
}

// Relationships returns a copy of the relationships region.
func (inst *Instance) Relationships() Record {
	return copyMap(inst.relationships(false))
}

// ID returns the identifier from the attributes region, falling back to the top-level "id".
func (inst *Instance) ID() any {
	if id, ok := inst.attributes(false)[ArgID]; ok && !isBlankID(id) {
		return id
	}
	return inst.representation[ArgID]
}

func (inst *Instance) HasID() bool {
	return !isBlankID(inst.ID())
}

// Call invokes any entry of the function table with this instance bound.
func (inst *Instance) Call(ctx context.Context, name string, args Params) (any, error) {
	return inst.resourceType.invoke(ctx, inst, name, args)
}

// Post creates the instance remotely and adopts the server representation.
func (inst *Instance) Post(ctx context.Context) error {
	_, err := inst.Call(ctx, "post", nil)
	return err
}

// Patch sends the representation as an update and adopts the server representation.
func (inst *Instance) Patch(ctx context.Context) error {
	_, err := inst.Call(ctx, "patch", nil)
	return err
}

// Sync refetches the instance by id.
func (inst *Instance) Sync(ctx context.Context) error {
	_, err := inst.Call(ctx, "sync", nil)
	return err
}

// DeleteSelf removes the instance remotely.
func (inst *Instance) DeleteSelf(ctx context.Context) error {
	_, err := inst.Call(ctx, "delete_self", nil)
	return err
}

// Fill decodes the attributes region into container, see Record.Fill.
func (inst *Instance) Fill(container any) error {
	return inst.Attributes().Fill(container)
}

func (inst *Instance) String() string {
	return fmt.Sprintf("%s(id=%v)", inst.resourceType.Name(), inst.ID())
}
