package sources

import (
	"context"
	"math"

	"github.com/covidactnow/datapublic/pkg/ccd"
	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/fields"
	"github.com/covidactnow/datapublic/pkg/geo"
	"github.com/covidactnow/datapublic/pkg/reconcile"
	"github.com/covidactnow/datapublic/pkg/schema"
	"github.com/covidactnow/datapublic/pkg/table"
)

const (
	CovidCareMapCountyURL = "https://raw.githubusercontent.com/covidcaremap/covid19-healthsystemcapacity/" +
		"master/data/published/us_healthcare_capacity-county-CovidCareMap.csv"
	CovidCareMapStateURL = "https://raw.githubusercontent.com/covidcaremap/covid19-healthsystemcapacity/" +
		"master/data/published/us_healthcare_capacity-state-CovidCareMap.csv"
)

var covidCareMapCapacity = []schema.SourceField{
	{Native: "Staffed All Beds", Canonical: fields.StaffedBeds},
	{Native: "Staffed ICU Beds", Canonical: fields.ICUBeds},
	{Native: "Licensed All Beds", Canonical: fields.LicensedBeds},
	{Native: "All Bed Occupancy Rate", Canonical: fields.AllBedTypicalOccupancyRate},
	{Native: "ICU Bed Occupancy Rate", Canonical: fields.ICUTypicalOccupancyRate},
}

// The capacity files carry dozens of per-capita columns nobody reads, so
// these mappings only declare what is kept.
var (
	CovidCareMapStateFields = schema.MustMapping("covid_care_map_state",
		append([]schema.SourceField{
			{Native: "State", Canonical: fields.State},
		}, covidCareMapCapacity...)...,
	)
	CovidCareMapCountyFields = schema.MustMapping("covid_care_map_county",
		append([]schema.SourceField{
			{Native: "fips_code", Canonical: fields.FIPS},
			{Native: "State", Canonical: fields.State},
			{Native: "County Name", Canonical: fields.County},
		}, covidCareMapCapacity...)...,
	)
)

// Known ICU capacities replacing the published numbers. Utah can only staff
// 85% of its listed ICU beds.
var icuBedOverrides = map[string]float64{
	"32031": 162, // Washoe County, NV
	"32":    844, // NV
	"49":    564, // UT
}

type covidCareMap struct{}

func init() {
	Register(covidCareMap{})
}

func (covidCareMap) Name() string { return "covid_care_map" }

func (covidCareMap) Inputs() []InputSpec {
	return []InputSpec{
		{Name: "state", URL: CovidCareMapStateURL, Read: table.ReadOptions{StringColumns: []string{"State"}}},
		{Name: "county", URL: CovidCareMapCountyURL, Read: table.ReadOptions{StringColumns: []string{"fips_code", "State", "County Name"}}},
	}
}

func (covidCareMap) Mappings() []*schema.Mapping {
	return []*schema.Mapping{CovidCareMapStateFields, CovidCareMapCountyFields}
}

func (covidCareMap) IndexFields() []fields.CommonField {
	return []fields.CommonField{fields.FIPS}
}

func (s covidCareMap) Transform(ctx context.Context, in Input) (*table.Table, error) {
	stateIn, err := in.Table(s.Name(), "state")
	if err != nil {
		return nil, err
	}
	countyIn, err := in.Table(s.Name(), "county")
	if err != nil {
		return nil, err
	}
	opts := reconcile.Options{Logger: in.logger(), SkipExtraFieldCheck: true}

	fips, state := fields.FIPS.String(), fields.State.String()
	states, err := reconcile.Reconcile(stateIn, CovidCareMapStateFields, nil, opts)
	if err != nil {
		return nil, err
	}
	var unknown error
	states = states.WithColumn(fips, func(r table.Row) interface{} {
		st, ok := geo.StateByAbbr(r.String(state))
		if !ok {
			if unknown == nil {
				unknown = errs.Data("covid_care_map: unknown state %q", r.String(state))
			}
			return nil
		}
		return st.FIPS
	})
	if unknown != nil {
		return nil, unknown
	}
	states = states.SetConstant(fields.AggregateLevel.String(), LevelState)

	counties, err := reconcile.Reconcile(countyIn, CovidCareMapCountyFields, nil, opts)
	if err != nil {
		return nil, err
	}
	counties = counties.WithColumn(fips, func(r table.Row) interface{} {
		return ccd.FIPSFromInt(r.Get(fips))
	})
	counties = counties.SetConstant(fields.AggregateLevel.String(), LevelCounty)

	all := table.Concat(counties, states)
	seen := make(map[string]bool, all.Len())
	for i := 0; i < all.Len(); i++ {
		f := all.Row(i).String(fips)
		if seen[f] {
			return nil, errs.Data("covid_care_map: unexpected duplicate fips %q", f)
		}
		seen[f] = true
	}
	all = stampLocation(all, "")

	icu := fields.ICUBeds.String()
	all = all.WithColumn(icu, func(r table.Row) interface{} {
		if v, ok := icuBedOverrides[r.String(fips)]; ok {
			return v
		}
		return r.Get(icu)
	})

	staffed, licensed := fields.StaffedBeds.String(), fields.LicensedBeds.String()
	all = all.WithColumn(fields.MaxBedCount.String(), func(r table.Row) interface{} {
		a, okA := r.Float(staffed)
		b, okB := r.Float(licensed)
		switch {
		case okA && okB:
			return math.Max(a, b)
		case okA:
			return a
		case okB:
			return b
		}
		return nil
	})

	// The Virgin Islands have no FIPS codes downstream.
	return all.Filter(func(r table.Row) bool { return r.String(state) != "VI" }), nil
}
