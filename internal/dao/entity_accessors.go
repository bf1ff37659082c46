package dao

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fvbommel/sortorder"
)

// Assets accesses energy assets.
type Assets struct {
	*Resource[Asset]
}

// NewAssets returns the assets accessor.
func NewAssets(f Factory) *Assets {
	r, _ := NewResource[Asset](f, AssetRID)
	return &Assets{Resource: r}
}

// RetrieveConsumption asks the server to pull the latest consumption of a dynamic asset.
func (a *Assets) RetrieveConsumption(ctx context.Context, id string) error {
	return a.put(ctx, id, "consumption/retrieve", struct{}{}, nil)
}

// Cars accesses user cars.
type Cars struct {
	*Resource[Car]
}

// NewCars returns the cars accessor.
func NewCars(f Factory) *Cars {
	r, _ := NewResource[Car](f, CarRID)
	return &Cars{Resource: r}
}

// CreateForced stores a new car. When forced is set the car is assigned to the
// user even if it already exists for somebody else.
func (c *Cars) CreateForced(ctx context.Context, car Car, forced bool) (string, error) {
	car.Forced = forced
	return c.Create(ctx, car)
}

// CarMakers lists the makers of the car catalog. The catalog rarely changes,
// so pages are cached.
type CarMakers struct {
	*Resource[CarMaker]
	cache *ResourceCache[CarMaker]
}

// NewCarMakers returns the car makers accessor.
func NewCarMakers(f Factory) *CarMakers {
	r, _ := NewResource[CarMaker](f, CarMakerRID)
	return &CarMakers{Resource: r, cache: NewResourceCache[CarMaker](DefaultCacheTTL)}
}

// List returns one page of makers, naturally sorted.
func (c *CarMakers) List(ctx context.Context, q Query) (DataResult[CarMaker], error) {
	key := cacheKey(q)
	if res, ok := c.cache.Get(key); ok {
		return res, nil
	}
	res, err := c.Resource.List(ctx, q)
	if err != nil {
		return res, err
	}
	desc := len(q.Sorting) > 0 && q.Sorting[0].Desc
	sort.SliceStable(res.Result, func(i, j int) bool {
		less := sortorder.NaturalLess(res.Result[i].CarMaker, res.Result[j].CarMaker)
		if desc {
			return !less
		}
		return less
	})
	c.cache.Set(key, res)

	return res, nil
}

func cacheKey(q Query) string {
	pp := q.Params()
	kk := make([]string, 0, len(pp))
	for k := range pp {
		kk = append(kk, k)
	}
	sort.Strings(kk)
	var b strings.Builder
	for _, k := range kk {
		fmt.Fprintf(&b, "%s=%s&", k, pp[k])
	}

	return b.String()
}

// ChargingProfiles accesses charging plans.
type ChargingProfiles struct {
	*Resource[ChargingProfile]
}

// NewChargingProfiles returns the charging plans accessor.
func NewChargingProfiles(f Factory) *ChargingProfiles {
	r, _ := NewResource[ChargingProfile](f, ChargingProfileRID)
	return &ChargingProfiles{Resource: r}
}

// RegistrationTokens accesses charging station registration tokens.
type RegistrationTokens struct {
	*Resource[RegistrationToken]
}

// NewRegistrationTokens returns the registration tokens accessor.
func NewRegistrationTokens(f Factory) *RegistrationTokens {
	r, _ := NewResource[RegistrationToken](f, RegistrationTokenRID)
	return &RegistrationTokens{Resource: r}
}

// Revoke invalidates a token.
func (r *RegistrationTokens) Revoke(ctx context.Context, id string) error {
	return r.put(ctx, id, "revoke", struct{}{}, nil)
}

// TokenStatus is the state of a registration token.
type TokenStatus string

const (
	TokenValid   TokenStatus = "valid"
	TokenRevoked TokenStatus = "revoked"
	TokenExpired TokenStatus = "expired"
)

// Status returns the state of the token at the given time. Expiry wins over revocation.
func (r RegistrationToken) Status(now time.Time) TokenStatus {
	switch {
	case r.ExpirationDate != nil && r.ExpirationDate.Before(now):
		return TokenExpired
	case r.RevocationDate != nil:
		return TokenRevoked
	default:
		return TokenValid
	}
}

const transactionPath = "/v1/api/transactions"

// Transactions accesses in-progress charging sessions.
type Transactions struct {
	*Resource[Transaction]
}

// NewTransactions returns the in-progress transactions accessor.
func NewTransactions(f Factory) *Transactions {
	r, _ := NewResource[Transaction](f, TransactionRID)
	return &Transactions{Resource: r}
}

// Get fetches one transaction, in progress or not.
func (t *Transactions) Get(ctx context.Context, id string) (Transaction, error) {
	var o Transaction
	if err := t.factory.Client().Get(ctx, transactionPath+"/"+id, nil, &o); err != nil {
		return o, fmt.Errorf("get transaction %q: %w", id, err)
	}

	return o, nil
}

// Stop remotely stops a transaction.
func (t *Transactions) Stop(ctx context.Context, id string) error {
	if err := t.factory.Client().Put(ctx, transactionPath+"/"+id+"/stop", struct{}{}, nil); err != nil {
		return fmt.Errorf("stop transaction %q: %w", id, err)
	}

	return nil
}

// Users accesses platform users.
type Users struct {
	*Resource[User]
}

// NewUsers returns the users accessor.
func NewUsers(f Factory) *Users {
	r, _ := NewResource[User](f, UserRID)
	return &Users{Resource: r}
}

// Session returns the session of the authenticated user.
func (u *Users) Session(ctx context.Context) (UserSession, error) {
	var s UserSession
	if err := u.factory.Client().Get(ctx, u.path+"/current", nil, &s); err != nil {
		return s, fmt.Errorf("load session: %w", err)
	}

	return s, nil
}
