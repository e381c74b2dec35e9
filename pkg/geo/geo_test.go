package geo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateLookups(t *testing.T) {
	s, ok := StateByAbbr("ny")
	require.True(t, ok)
	require.Equal(t, State{FIPS: "36", Abbr: "NY", Name: "New York"}, s)

	s, ok = StateByFIPS("36061")
	require.True(t, ok)
	require.Equal(t, "NY", s.Abbr)

	_, ok = StateByFIPS("99")
	require.False(t, ok)
	_, ok = StateByAbbr("XX")
	require.False(t, ok)

	all := States()
	require.Equal(t, "01", all[0].FIPS)
	require.Equal(t, "VI", all[len(all)-1].Abbr)
}

func TestFIPSShape(t *testing.T) {
	require.True(t, IsCountyFIPS("36061"))
	require.False(t, IsCountyFIPS("36"))
	require.True(t, IsStateFIPS("36"))
	require.Equal(t, "36", StateFIPS("36061"))
	require.Equal(t, "3", StateFIPS("3"))
}

func TestReadCounties(t *testing.T) {
	counties, err := ReadCounties(strings.NewReader(
		"fips,state,county,population\n1001,AL,Autauga County,55869\n36061,NY,New York County,1628706\n36,NY,,\n"))
	require.NoError(t, err)
	require.Len(t, counties, 2)
	require.Equal(t, County{FIPS: "01001", State: "AL", Name: "Autauga County", Population: 55869}, counties["01001"])

	_, err = ReadCounties(strings.NewReader("fips,state\n1001,AL\n"))
	require.Error(t, err)
}
