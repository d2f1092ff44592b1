package fixed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/corekit"
)

type vec4 = Array[float32, [4]float32]

func TestArray_ZeroValue(t *testing.T) {
	var a vec4
	assert.Equal(t, 4, a.Len())
	assert.Equal(t, []float32{0, 0, 0, 0}, a.Data())
	assert.Equal(t, 16, a.SizeInBytes())
}

func TestArray_New(t *testing.T) {
	a := New[int, [3]int](1, 2)
	assert.Equal(t, [3]int{1, 2, 0}, a.Values())

	b := New[int, [2]int](1, 2, 3, 4)
	assert.Equal(t, [2]int{1, 2}, b.Values())

	c := Filled[string, [3]string]("x")
	assert.Equal(t, []string{"x", "x", "x"}, c.Data())
}

func TestArray_Access(t *testing.T) {
	a := New[int, [4]int](10, 20, 30, 40)

	assert.Equal(t, 10, a.First())
	assert.Equal(t, 40, a.Last())
	assert.Equal(t, 30, a.At(2))

	a.Set(1, 21)
	*a.Ref(3) = 41
	assert.Equal(t, [4]int{10, 21, 30, 41}, a.Values())
}

func TestArray_Bounds(t *testing.T) {
	a := New[int, [2]int]()

	for _, fn := range []func(){
		func() { a.At(2) },
		func() { a.At(-1) },
		func() { a.Set(5, 1) },
		func() { a.Ref(2) },
	} {
		requireContract(t, corekit.ErrOutOfRange, fn)
	}

	var empty Array[int, [0]int]
	assert.Equal(t, 0, empty.Len())
	requireContract(t, corekit.ErrEmpty, func() { empty.First() })
	requireContract(t, corekit.ErrEmpty, func() { empty.Last() })
	assert.True(t, empty.AllOf(func(int) bool { return false }))
}

func TestArray_InvalidLayout(t *testing.T) {
	var wrongElem Array[int, [4]int32]
	requireContract(t, corekit.ErrInvalidLayout, func() { wrongElem.Len() })

	var notArray Array[int, []int]
	requireContract(t, corekit.ErrInvalidLayout, func() { notArray.Data() })
}

func TestArray_Algorithms(t *testing.T) {
	a := New[int, [6]int](3, 1, 4, 1, 5, 9)
	odd := func(v int) bool { return v%2 == 1 }

	assert.Equal(t, 2, Find(&a, 4))
	assert.Equal(t, -1, Find(&a, 7))
	assert.True(t, Contains(&a, 9))
	assert.False(t, Contains(&a, 2))

	assert.Equal(t, 2, a.IndexFunc(func(v int) bool { return v > 3 }))
	assert.False(t, a.AllOf(odd))
	assert.True(t, a.AnyOf(odd))
	assert.False(t, a.NoneOf(odd))
	assert.Equal(t, 5, a.CountIf(odd))

	a.ForEach(func(i int, v *int) { *v += i })
	assert.Equal(t, [6]int{3, 2, 6, 4, 9, 14}, a.Values())

	a.Fill(7)
	assert.True(t, a.AllOf(func(v int) bool { return v == 7 }))
}

func TestArray_CopyIsIndependent(t *testing.T) {
	a := New[string, [2]string]("a", "b")
	b := a.Clone()
	c := a

	b.Set(0, "x")
	c.Set(1, "y")

	assert.Equal(t, [2]string{"a", "b"}, a.Values())
	assert.Equal(t, [2]string{"x", "b"}, b.Values())
	assert.Equal(t, [2]string{"a", "y"}, c.Values())
}

func TestArray_EqualCompare(t *testing.T) {
	a := New[int, [3]int](1, 2, 3)
	b := New[int, [3]int](1, 2, 4)

	assert.True(t, Equal(&a, &a))
	assert.False(t, Equal(&a, &b))
	assert.Equal(t, -1, Compare(&a, &b))
	assert.Equal(t, 1, Compare(&b, &a))
}

func TestArray_All(t *testing.T) {
	a := New[int, [3]int](5, 6, 7)

	sum := 0
	for i, v := range a.All() {
		sum += i * v
	}
	assert.Equal(t, 6+14, sum)
}

func requireContract(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok)
		var ce *corekit.ContractError
		require.True(t, errors.As(err, &ce))
		assert.ErrorIs(t, err, target)
	}()
	fn()
}
