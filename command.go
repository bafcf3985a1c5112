package multiwrite

import "strings"

// Command is one store operation: a name and its positional arguments, as
// they would appear on the Redis wire ("SET", "k", "v").
type Command struct {
	Name string
	Args []any
}

// Cmd builds a Command.
func Cmd(name string, args ...any) Command {
	return Command{Name: name, Args: args}
}

// wire returns the full positional argument list, name first, as accepted by
// the go-redis generic Do.
func (c Command) wire() []any {
	args := make([]any, 0, len(c.Args)+1)
	args = append(args, c.Name)
	args = append(args, c.Args...)
	return args
}

// request is one logical write: a single command, or an ordered batch
// executed as one pipeline per destination. Immutable once built; shared
// read-only across all concurrent attempts.
type request struct {
	single Command
	batch  []Command
}

func (r request) isBatch() bool { return r.batch != nil }

// supportedCommands is the fixed capability surface commands are validated
// against. Anything else fails with UnsupportedCommandError before any
// destination is contacted.
var supportedCommands = map[string]struct{}{
	"APPEND":  {},
	"DECR":    {},
	"DECRBY":  {},
	"DEL":     {},
	"EXISTS":  {},
	"EXPIRE":  {},
	"FLUSHDB": {},
	"GET":     {},
	"GETDEL":  {},
	"GETEX":   {},
	"HDEL":    {},
	"HSET":    {},
	"INCR":    {},
	"INCRBY":  {},
	"LPOP":    {},
	"LPUSH":   {},
	"MSET":    {},
	"PERSIST": {},
	"PEXPIRE": {},
	"PING":    {},
	"PSETEX":  {},
	"PTTL":    {},
	"RENAME":  {},
	"RPOP":    {},
	"RPUSH":   {},
	"SADD":    {},
	"SET":     {},
	"SETEX":   {},
	"SETNX":   {},
	"SREM":    {},
	"TTL":     {},
	"UNLINK":  {},
	"ZADD":    {},
	"ZREM":    {},
}

// supported reports whether name is part of the command table.
func supported(name string) bool {
	_, ok := supportedCommands[strings.ToUpper(name)]
	return ok
}

// toInt normalizes integer replies across real connections (int64) and test
// doubles.
func toInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case bool:
		if n {
			return 1
		}
	}
	return 0
}

// toBool normalizes simple-string and integer replies to a success flag.
func toBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "OK"
	case int64:
		return t > 0
	case int:
		return t > 0
	}
	return false
}
