//go:build ecs_release

package world

type capability struct{}

func newCapability(bool) capability {
	return capability{}
}

func (capability) assertAllowsMutableAccess() {}
