package model

import (
	"strconv"
	"strings"
)

const (
	keySep  = '\x1f'
	keyNull = '\x00'
)

// keyBuilder renders a row as an unambiguous string: fields are separated
// by a unit separator and nulls are distinct from empty strings.
type keyBuilder struct {
	b strings.Builder
}

func (k *keyBuilder) sep() {
	if k.b.Len() > 0 {
		k.b.WriteByte(keySep)
	}
}

func (k *keyBuilder) str(v string) {
	k.sep()
	k.b.WriteByte('s')
	k.b.WriteString(v)
}

func (k *keyBuilder) optStr(v *string) {
	if v == nil {
		k.null()
		return
	}
	k.str(*v)
}

func (k *keyBuilder) int(v int64) {
	k.sep()
	k.b.WriteString(strconv.FormatInt(v, 10))
}

func (k *keyBuilder) float(v float64) {
	k.sep()
	k.b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
}

func (k *keyBuilder) optFloat(v *float64) {
	if v == nil {
		k.null()
		return
	}
	k.float(*v)
}

func (k *keyBuilder) null() {
	k.sep()
	k.b.WriteByte(keyNull)
}

func (k *keyBuilder) String() string { return k.b.String() }
