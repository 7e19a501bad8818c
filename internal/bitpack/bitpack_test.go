package bitpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLenFormula(t *testing.T) {
	require := require.New(t)

	for nbit := 1; nbit < 32; nbit++ {
		for nelem := 0; nelem < 100; nelem++ {
			n := Len(nelem, uint(nbit))
			require.GreaterOrEqual(n*32, nelem*nbit)
			require.Less((n-1)*32, nelem*nbit)
		}
	}
}

func TestPack16Bit(t *testing.T) {
	require := require.New(t)

	data := []uint32{0xffff, 0xeeee, 0xdddd, 0xcccc}
	packed, err := Pack(data, 16)
	require.NoError(err)
	require.Equal([]uint32{0xffffeeee, 0xddddcccc}, packed)
}

func TestPack12Bit(t *testing.T) {
	require := require.New(t)

	data := []uint32{0xfff, 0xeee, 0xddd, 0xccc, 0xbbb, 0xaaa, 0x999, 0x888}
	packed, err := Pack(data, 12)
	require.NoError(err)
	require.Equal([]uint32{0xfffeeedd, 0xdcccbbba, 0xaa999888}, packed)

	data9 := append(append([]uint32{}, data...), 0x777)
	packed9, err := Pack(data9, 12)
	require.NoError(err)
	require.Len(packed9, 4)
	require.Equal(uint32(0x77700000), packed9[3])
}

func TestPack4Bit(t *testing.T) {
	require := require.New(t)

	data := []uint32{0xf, 0xf, 0xe, 0xf, 0xc, 0xf, 0xd, 0xf}
	packed, err := Pack(data, 4)
	require.NoError(err)
	require.Equal([]uint32{0xffefcfdf}, packed)
}

func TestPack1Bit(t *testing.T) {
	require := require.New(t)

	data := []uint32{1, 0, 1, 0, 0, 0, 1, 1}
	packed, err := Pack(data, 1)
	require.NoError(err)
	require.Equal([]uint32{0xa3000000}, packed)
}

func TestPackUnpackRoundTrip(t *testing.T) {
	require := require.New(t)

	const nelem = 4096
	for nbit := uint(1); nbit < 32; nbit++ {
		data := make([]uint32, nelem)
		limit := uint32(1) << nbit
		for i := range data {
			data[i] = uint32(i) % limit
		}

		packed, err := Pack(data, nbit)
		require.NoError(err)

		got, err := Unpack(packed, nelem, nbit)
		require.NoError(err)
		require.Equal(data, got)
	}
}

func TestInvalidWidth(t *testing.T) {
	require := require.New(t)

	_, err := Pack([]uint32{1}, 0)
	require.Error(err)

	_, err = Pack([]uint32{1}, 32)
	require.Error(err)
}
