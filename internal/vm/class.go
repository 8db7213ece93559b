package vm

import "fmt"

// Class is a user-defined type: a name, its methods, and an optional
// initializer stored separately from the method table so construction
// never probes it.
type Class struct {
	objHeader
	Name        *ObjStringVal
	Initializer Value // Closure, Native, or Nil
	Methods     *Table
}

func (c *Class) objType() ObjType { return ObjClass }
func (c *Class) String() string   { return c.Name.Chars }

// Instance is a live object of some Class, with its own field table.
type Instance struct {
	objHeader
	Class  *Class
	Fields *Table
}

func (i *Instance) objType() ObjType { return ObjInstance }
func (i *Instance) String() string   { return fmt.Sprintf("<%s instance>", i.Class.Name.Chars) }

// BoundMethod pairs a receiver with a callable method, materialized lazily
// by GET_PROPERTY when the property isn't a field; the invoke() fast path
// in the VM avoids allocating one for direct method calls.
type BoundMethod struct {
	objHeader
	Receiver Value
	Method   Value // Closure or Native
}

func (b *BoundMethod) objType() ObjType { return ObjBoundMethod }
func (b *BoundMethod) String() string   { return "<bound method>" }
