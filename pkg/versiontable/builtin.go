package versiontable

import (
	"sync"

	"github.com/vilterp/pysubscript/pkg/pyversion"
)

var (
	builtinOnce  sync.Once
	builtinTable *Table
)

// Builtin returns the table of standard library classes that only
// gained __class_getitem__ in Python 3.9 (PEP 585 and the follow-up
// stdlib changes). It is built once per process.
func Builtin() *Table {
	builtinOnce.Do(func() {
		builtinTable = MustNew(builtinRequirements()...)
	})
	return builtinTable
}

func builtinRequirements() []Requirement {
	gate := func(qualified string, alias string) Requirement {
		return Requirement{
			Symbol:      ParseSymbol(qualified),
			MinVersion:  pyversion.V3_9,
			TypingAlias: alias,
		}
	}
	return []Requirement{
		// builtins
		gate("builtins.list", "typing.List"),
		gate("builtins.dict", "typing.Dict"),
		gate("builtins.set", "typing.Set"),
		gate("builtins.frozenset", "typing.FrozenSet"),
		gate("builtins.tuple", "typing.Tuple"),
		gate("builtins.type", "typing.Type"),

		// collections
		gate("collections.deque", "typing.Deque"),
		gate("collections.defaultdict", "typing.DefaultDict"),
		gate("collections.OrderedDict", "typing.OrderedDict"),
		gate("collections.Counter", "typing.Counter"),
		gate("collections.ChainMap", "typing.ChainMap"),

		// queue
		gate("queue.Queue", ""),
		gate("queue.SimpleQueue", ""),
		gate("queue.LifoQueue", ""),
		gate("queue.PriorityQueue", ""),

		// asyncio, under both the package and the defining module
		gate("asyncio.Future", ""),
		gate("asyncio.futures.Future", ""),
		gate("asyncio.Task", ""),
		gate("asyncio.tasks.Task", ""),
		gate("asyncio.Queue", ""),
		gate("asyncio.queues.Queue", ""),

		gate("os.PathLike", ""),

		gate("re.Pattern", "typing.Pattern"),
		gate("re.Match", "typing.Match"),

		gate("contextlib.AbstractContextManager", "typing.ContextManager"),
		gate("contextlib.AbstractAsyncContextManager", "typing.AsyncContextManager"),
	}
}
