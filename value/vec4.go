package value

// Vec4 is a four-component 32-bit float vector, copied by value like any
// other small plain-old-data type — no sharing, no secret.
type Vec4 struct {
	V [4]float32
}

func (Vec4) Kind() Kind { return KindVec4 }
func (Vec4) sealed()    {}

// V4 constructs a Vec4 value from its four components.
func V4(x, y, z, w float32) Value { return Vec4{V: [4]float32{x, y, z, w}} }
