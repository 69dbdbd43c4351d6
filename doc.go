// Package domvisit adapts streaming document visitors to each other.
//
// A Visitor receives a document as a sequence of events. Visitors advertise
// which structural primitives they understand through Flags: objects, arrays,
// generic named nodes, and unparsed raw values and keys. An Adapter placed in
// front of a visitor accepts every primitive and rewrites the ones the
// downstream lacks:
//
//   - objects and arrays become Object and Array nodes whose members and
//     elements are wrapped in Entry nodes, a member's key riding on the Entry
//     as a Key attribute;
//   - nodes become objects carrying the node name under Node and the node's
//     elements under Children;
//   - raw values are classified into null, booleans, numbers or strings, and
//     raw keys are unquoted.
//
// The rewrite is reversible: an Adapter in front of an object visitor turns
// the Object, Array and Entry nodes written by another Adapter back into
// objects and arrays.
//
// Producers for JSON, YAML and XML live under source/, writers and a tree
// builder under visitor/, and whole-file conversions in convert.
//
// Typical usage:
//
//	w := jsonout.New(os.Stdout)
//	a, err := domvisit.NewAdapter(w)
//	if err != nil {
//		return err
//	}
//	if err := xmlsrc.Walk(r, a); err != nil {
//		return err
//	}
//	return w.Flush()
package domvisit
