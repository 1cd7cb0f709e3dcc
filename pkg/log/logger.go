package log

import (
	"context"
	"fmt"
	"log"
	"strings"
)

type tagKey string

const (
	RunIDKey     tagKey = "run"
	FileKey      tagKey = "file"
	ConnIDKey    tagKey = "conn"
	RequestIDKey tagKey = "req"
)

// tags are printed in this order.
var tagKeys = []tagKey{RunIDKey, FileKey, ConnIDKey, RequestIDKey}

func ctxToString(ctx context.Context) string {
	var tags []string
	for _, key := range tagKeys {
		if val := ctx.Value(key); val != nil {
			tags = append(tags, fmt.Sprintf("%s=%v", key, val))
		}
	}
	return fmt.Sprintf("[%s]", strings.Join(tags, ","))
}

func Println(l Loggable, args ...interface{}) {
	var allArgs []interface{}
	allArgs = append(allArgs, ctxToString(l.Ctx()))
	allArgs = append(allArgs, args...)
	log.Println(allArgs...)
}

func Printf(l Loggable, format string, args ...interface{}) {
	log.Printf("%s %s", ctxToString(l.Ctx()), fmt.Sprintf(format, args...))
}

type Loggable interface {
	Ctx() context.Context
}

type ctxLoggable struct {
	ctx context.Context
}

func (c ctxLoggable) Ctx() context.Context { return c.ctx }

// FromContext lets a bare context carry tags into Println.
func FromContext(ctx context.Context) Loggable {
	return ctxLoggable{ctx: ctx}
}
