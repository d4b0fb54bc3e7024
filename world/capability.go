//go:build !ecs_release

package world

// capability records whether a Cell may hand out write access. Release builds compile it away.
type capability struct {
	allowsMutableAccess bool
}

func newCapability(allowsMutableAccess bool) capability {
	return capability{allowsMutableAccess: allowsMutableAccess}
}

func (c capability) assertAllowsMutableAccess() {
	if !c.allowsMutableAccess {
		panic("mutating world data via World.AsReadOnlyCell is forbidden")
	}
}
