// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persisted domain types. Timestamps are stored as
// Unix microseconds and restored in UTC.

var (
	// IDMUS serializes an ID.
	IDMUS = idMUS{}
	// ProfileMUS serializes a Profile.
	ProfileMUS = profileMUS{}
	// InterestEdgeMUS serializes an InterestEdge.
	InterestEdgeMUS = interestEdgeMUS{}
)

var (
	_ mus.Serializer[ID]           = IDMUS
	_ mus.Serializer[Profile]      = ProfileMUS
	_ mus.Serializer[InterestEdge] = InterestEdgeMUS
)

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	num, n, err := varint.Uint64.Unmarshal(bs)
	return ID(num), n, err
}

func (idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type timeMicroMUS struct{}

func (timeMicroMUS) Marshal(v time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (timeMicroMUS) Unmarshal(bs []byte) (v time.Time, n int, err error) {
	num, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(num).UTC(), n, nil
}

func (timeMicroMUS) Size(v time.Time) (size int) {
	return varint.Int64.Size(v.UnixMicro())
}

func (timeMicroMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int64.Skip(bs)
}

var timeMUS = timeMicroMUS{}

type profileMUS struct{}

func (profileMUS) Marshal(v Profile, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Branch, bs[n:])
	n += ord.String.Marshal(v.Role, bs[n:])
	n += ord.String.Marshal(v.About, bs[n:])
	n += ord.String.Marshal(v.PhotoRef, bs[n:])
	n += timeMUS.Marshal(v.CreatedAt, bs[n:])
	return n
}

func (profileMUS) Unmarshal(bs []byte) (v Profile, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Branch, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Role, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.About, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.PhotoRef, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return v, n, err
}

func (profileMUS) Size(v Profile) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.Branch)
	size += ord.String.Size(v.Role)
	size += ord.String.Size(v.About)
	size += ord.String.Size(v.PhotoRef)
	size += timeMUS.Size(v.CreatedAt)
	return size
}

func (profileMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return n, err
	}
	for i := 0; i < 5; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return n, err
		}
	}
	n1, err = timeMUS.Skip(bs[n:])
	n += n1
	return n, err
}

type interestEdgeMUS struct{}

func (interestEdgeMUS) Marshal(v InterestEdge, bs []byte) (n int) {
	n = IDMUS.Marshal(v.From, bs)
	n += IDMUS.Marshal(v.To, bs[n:])
	n += timeMUS.Marshal(v.CreatedAt, bs[n:])
	return n
}

func (interestEdgeMUS) Unmarshal(bs []byte) (v InterestEdge, n int, err error) {
	var n1 int
	v.From, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	v.To, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return v, n, err
}

func (interestEdgeMUS) Size(v InterestEdge) (size int) {
	size = IDMUS.Size(v.From)
	size += IDMUS.Size(v.To)
	size += timeMUS.Size(v.CreatedAt)
	return size
}

func (interestEdgeMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return n, err
	}
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return n, err
	}
	n1, err = timeMUS.Skip(bs[n:])
	n += n1
	return n, err
}
