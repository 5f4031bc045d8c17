package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/ollama-webui/pkg/domain"
)

type fakeAirlineRepo struct {
	airlines map[string]domain.AirlineDetail
	err      error
}

func (f *fakeAirlineRepo) FindByName(_ context.Context, name string) (*domain.AirlineDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.airlines[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAirlineRepo) UpdateCallsign(_ context.Context, name, callsign string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	a, ok := f.airlines[name]
	if !ok {
		return false, nil
	}
	a.Callsign = callsign
	f.airlines[name] = a
	return true, nil
}

type fakeEmployeeRepo struct {
	employees map[string]domain.Employee
}

func (f *fakeEmployeeRepo) FindByName(_ context.Context, name string) (*domain.Employee, error) {
	e, ok := f.employees[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func TestAirlineLookupAndUpdate(t *testing.T) {
	repo := &fakeAirlineRepo{airlines: map[string]domain.AirlineDetail{
		"Astraeus": {Name: "Astraeus", Callsign: "FLYSTAR", Country: "United Kingdom"},
	}}
	ctx := context.Background()

	lookup := NewAirlineLookup(repo).Function().(func(context.Context, string) (domain.AirlineDetail, error))
	update := NewAirlineUpdate(repo).Function().(func(context.Context, string, string) (bool, error))

	got, err := lookup(ctx, "Astraeus")
	require.NoError(t, err)
	assert.Equal(t, "FLYSTAR", got.Callsign)

	updated, err := update(ctx, "Astraeus", "STARBOUND")
	require.NoError(t, err)
	assert.True(t, updated)

	got, err = lookup(ctx, "Astraeus")
	require.NoError(t, err)
	assert.Equal(t, "STARBOUND", got.Callsign)

	updated, err = update(ctx, "Nowhere Air", "GHOST")
	require.NoError(t, err)
	assert.False(t, updated)

	_, err = lookup(ctx, "Nowhere Air")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAirlineToolsPropagateRepoErrors(t *testing.T) {
	boom := errors.New("cluster unreachable")
	repo := &fakeAirlineRepo{err: boom}

	update := NewAirlineUpdate(repo).Function().(func(context.Context, string, string) (bool, error))
	_, err := update(context.Background(), "Astraeus", "X")
	assert.ErrorIs(t, err, boom)
}

func TestEmployeeLookup(t *testing.T) {
	repo := &fakeEmployeeRepo{employees: map[string]domain.Employee{
		"Rahul Kumar": {ID: "e-1", Name: "Rahul Kumar", Address: "King St, Hyderabad, India", Phone: "9876543210"},
	}}
	fn := NewEmployeeLookup(repo).Function().(func(context.Context, string) (domain.Employee, error))

	got, err := fn(context.Background(), "Rahul Kumar")
	require.NoError(t, err)
	assert.Equal(t, "Employee Details {ID: e-1, Name: Rahul Kumar, Address: King St, Hyderabad, India, Phone: 9876543210}", got.String())

	_, err = fn(context.Background(), "Nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEmployeeLookupWithoutDatabase(t *testing.T) {
	fn := NewEmployeeLookup(nil).Function().(func(context.Context, string) (domain.Employee, error))

	got, err := fn(context.Background(), "Rahul Kumar")
	require.NoError(t, err)
	assert.Equal(t, "Rahul Kumar", got.Name)
	assert.Len(t, got.ID, 36)
}

func TestSampleTools(t *testing.T) {
	fuel := NewFuelPrice().Function().(func(context.Context, string, string) (string, error))
	out, err := fuel(context.Background(), "Bengaluru", "petrol")
	require.NoError(t, err)
	assert.Equal(t, "Current price of petrol in Bengaluru is Rs.103/L", out)

	weather := NewWeather().Function().(func(context.Context, string) (string, error))
	out, err = weather(context.Background(), "Bengaluru")
	require.NoError(t, err)
	assert.Equal(t, "Currently Bengaluru's weather is nice.", out)
}
