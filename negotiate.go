package domvisit

// Negotiate decides which primitives must be emulated in front of a visitor
// advertising native. The result depends only on native.
//
// Nodes are emulated through objects and arrays when both are available;
// otherwise missing objects or arrays are emulated through nodes. Raw values
// and raw keys are classified into typed events when missing. A visitor with
// neither nodes nor objects and arrays cannot be adapted and yields
// ErrUnsupportedVisitor.
func Negotiate(native Flags) (Flags, error) {
	var polyfill Flags
	switch {
	case native.Has(FlagObjects|FlagArrays) && !native.Has(FlagNodes):
		polyfill |= FlagNodes
	case native.Has(FlagNodes):
		if !native.Has(FlagArrays) {
			polyfill |= FlagArrays
		}
		if !native.Has(FlagObjects) {
			polyfill |= FlagObjects
		}
	default:
		return FlagNone, opErr("negotiate "+native.String(), ErrUnsupportedVisitor)
	}
	if !native.Has(FlagRawValues) {
		polyfill |= FlagRawValues
	}
	if !native.Has(FlagRawKeys) {
		polyfill |= FlagRawKeys
	}
	return polyfill, nil
}
