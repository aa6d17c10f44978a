package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the stored record types. The schema is
// small enough that generated code is not worth the build step; the
// serializer shape matches what musgen would emit so storage code stays
// oblivious either way.

var (
	// IDMUS serializes core.ID values.
	IDMUS = idMUS{}
	// DestinationMUS serializes core.Destination values.
	DestinationMUS = destinationMUS{}
	// APIKeyMUS serializes core.APIKey values.
	APIKeyMUS = apiKeyMUS{}
)

type idMUS struct{}

func (s idMUS) Marshal(v ID, buf []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), buf)
}

func (s idMUS) Unmarshal(buf []byte) (v ID, n int, err error) {
	raw, n, err := varint.Uint64.Unmarshal(buf)
	return ID(raw), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s idMUS) Skip(buf []byte) (n int, err error) {
	return varint.Uint64.Skip(buf)
}

type destinationMUS struct{}

func (s destinationMUS) Marshal(v Destination, buf []byte) (n int) {
	n = ord.String.Marshal(v.Id, buf)
	n += ord.String.Marshal(v.OwnerId, buf[n:])
	n += ord.String.Marshal(v.Name, buf[n:])
	n += ord.String.Marshal(v.StoreIndex, buf[n:])
	n += varint.Int64.Marshal(v.InsertedAt.UnixMicro(), buf[n:])
	n += varint.Int64.Marshal(v.UpdatedAt.UnixMicro(), buf[n:])
	return n
}

func (s destinationMUS) Unmarshal(buf []byte) (v Destination, n int, err error) {
	var n1 int
	v.Id, n, err = ord.String.Unmarshal(buf)
	if err != nil {
		return
	}
	v.OwnerId, n1, err = ord.String.Unmarshal(buf[n:])
	n += n1
	if err != nil {
		return
	}
	v.Name, n1, err = ord.String.Unmarshal(buf[n:])
	n += n1
	if err != nil {
		return
	}
	v.StoreIndex, n1, err = ord.String.Unmarshal(buf[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(buf[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt = time.UnixMicro(micros).UTC()
	micros, n1, err = varint.Int64.Unmarshal(buf[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt = time.UnixMicro(micros).UTC()
	return
}

func (s destinationMUS) Size(v Destination) (size int) {
	size = ord.String.Size(v.Id)
	size += ord.String.Size(v.OwnerId)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.StoreIndex)
	size += varint.Int64.Size(v.InsertedAt.UnixMicro())
	size += varint.Int64.Size(v.UpdatedAt.UnixMicro())
	return size
}

func (s destinationMUS) Skip(buf []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 4; i++ {
		n1, err = ord.String.Skip(buf[n:])
		n += n1
		if err != nil {
			return
		}
	}
	for i := 0; i < 2; i++ {
		n1, err = varint.Int64.Skip(buf[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

type apiKeyMUS struct{}

func (s apiKeyMUS) Marshal(v APIKey, buf []byte) (n int) {
	n = IDMUS.Marshal(v.Id, buf)
	n += ord.String.Marshal(v.OwnerId, buf[n:])
	n += ord.String.Marshal(v.Label, buf[n:])
	n += varint.Int64.Marshal(v.InsertedAt.UnixMicro(), buf[n:])
	return n
}

func (s apiKeyMUS) Unmarshal(buf []byte) (v APIKey, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(buf)
	if err != nil {
		return
	}
	v.OwnerId, n1, err = ord.String.Unmarshal(buf[n:])
	n += n1
	if err != nil {
		return
	}
	v.Label, n1, err = ord.String.Unmarshal(buf[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(buf[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt = time.UnixMicro(micros).UTC()
	return
}

func (s apiKeyMUS) Size(v APIKey) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.OwnerId)
	size += ord.String.Size(v.Label)
	size += varint.Int64.Size(v.InsertedAt.UnixMicro())
	return size
}

func (s apiKeyMUS) Skip(buf []byte) (n int, err error) {
	var n1 int
	n, err = IDMUS.Skip(buf)
	if err != nil {
		return
	}
	for i := 0; i < 2; i++ {
		n1, err = ord.String.Skip(buf[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = varint.Int64.Skip(buf[n:])
	n += n1
	return
}
