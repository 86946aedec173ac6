package spool

import ireflect "github.com/danpasecinic/spool/internal/reflect"

func ReplaceSingleton[TService, TImpl any](c *Collection) error {
	return register(c, replaceOne)(Describe[TService, TImpl](Singleton))
}

func ReplaceTransient[TService, TImpl any](c *Collection) error {
	return register(c, replaceOne)(Describe[TService, TImpl](Transient))
}

func ReplaceFactory[TService, TImpl any](c *Collection, factory func(r Resolver) (TImpl, error), lt Lifetime) error {
	return register(c, replaceOne)(DescribeFactory[TService](factory, lt))
}

func ReplaceInstance[TService any](c *Collection, instance TService) error {
	return register(c, replaceOne)(DescribeInstance(instance))
}

func RemoveAllOf[TService any](c *Collection) error {
	if c == nil {
		return errNilArgument("collection")
	}
	return c.RemoveAll(ireflect.TypeFor[TService]())
}

func replaceOne(c *Collection, descriptors ...*Descriptor) error {
	return c.Replace(descriptors[0])
}
