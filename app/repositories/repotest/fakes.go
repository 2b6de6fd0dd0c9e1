// Package repotest provides in-memory implementations of the repository interfaces for tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Rakhulsr/e-agri/app/models"
	"github.com/Rakhulsr/e-agri/app/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store backs every fake repository with shared maps so joins behave like the database.
// Setting Err makes every repository call fail with it.
type Store struct {
	mu sync.Mutex

	Err error

	users      map[string]*models.User
	farmers    map[string]*models.Farmer
	dealers    map[string]*models.Dealer
	attempts   []models.LoginAttempt
	categories map[string]*models.Category
	products   map[string]*models.Product
	weather    []models.WeatherReading

	seq uint64
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]*models.User),
		farmers:    make(map[string]*models.Farmer),
		dealers:    make(map[string]*models.Dealer),
		categories: make(map[string]*models.Category),
		products:   make(map[string]*models.Product),
	}
}

func (s *Store) UserRepo() repositories.UserRepositoryImpl            { return &userRepo{s} }
func (s *Store) ProfileRepo() repositories.ProfileRepositoryImpl      { return &profileRepo{s} }
func (s *Store) AttemptRepo() repositories.LoginAttemptRepositoryImpl { return &attemptRepo{s} }
func (s *Store) CategoryRepo() repositories.CategoryRepositoryImpl    { return &categoryRepo{s} }
func (s *Store) ProductRepo() repositories.ProductRepositoryImpl      { return &productRepo{s} }
func (s *Store) WeatherRepo() repositories.WeatherRepositoryImpl      { return &weatherRepo{s} }

// next returns a strictly increasing timestamp so "newest first" ordering is deterministic.
func (s *Store) next() time.Time {
	s.seq++
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.seq) * time.Second)
}

func (s *Store) AddCategory(name, categoryType string, active bool) *models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &models.Category{
		ID:       uuid.New().String(),
		Name:     name,
		Slug:     strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Type:     categoryType,
		IsActive: active,
	}
	s.categories[c.ID] = c
	return c
}

// AddDealer stores a dealer account with the given verification status and returns user and profile.
func (s *Store) AddDealer(email, status string) (*models.User, *models.Dealer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{
		ID:       uuid.New().String(),
		Email:    email,
		FullName: "Dealer " + email,
		Role:     models.RoleDealer,
		IsActive: true,
	}
	d := &models.Dealer{
		ID:                 uuid.New().String(),
		UserID:             u.ID,
		BusinessName:       "Agro " + email,
		District:           "Mysuru",
		State:              "Karnataka",
		VerificationStatus: status,
	}
	s.users[u.ID] = u
	s.dealers[u.ID] = d
	return u, d
}

func (s *Store) AddProduct(p models.Product) *models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.next()
	}
	s.products[p.ID] = &p
	return &p
}

func (s *Store) AddWeather(r models.WeatherReading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	r.ID = s.seq
	if r.RecordedAt.IsZero() {
		r.RecordedAt = s.next()
	}
	s.weather = append(s.weather, r)
}

func (s *Store) User(email string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (s *Store) Dealer(userID string) *models.Dealer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.dealers[userID]; ok {
		cp := *d
		return &cp
	}
	return nil
}

func (s *Store) Farmer(userID string) *models.Farmer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.farmers[userID]; ok {
		cp := *f
		return &cp
	}
	return nil
}

func (s *Store) Product(id string) *models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		cp := *p
		return &cp
	}
	return nil
}

func (s *Store) Attempts() []models.LoginAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.LoginAttempt(nil), s.attempts...)
}

func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type userRepo struct{ s *Store }

func (r *userRepo) EmailExists(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepo) FindActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := r.FindByEmail(ctx, email)
	if err != nil || u == nil || !u.IsActive {
		return nil, err
	}
	return u, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if u, ok := r.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *userRepo) insertLocked(user *models.User) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.PreferredLanguage == "" {
		user.PreferredLanguage = models.DefaultLanguage
	}
	user.CreatedAt = r.s.next()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.insertLocked(user)
}

func (r *userRepo) CreateFarmer(_ context.Context, user *models.User, farmer *models.Farmer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.insertLocked(user); err != nil {
		return err
	}
	if farmer.ID == "" {
		farmer.ID = uuid.New().String()
	}
	farmer.UserID = user.ID
	cp := *farmer
	r.s.farmers[user.ID] = &cp
	return nil
}

func (r *userRepo) CreateDealer(_ context.Context, user *models.User, dealer *models.Dealer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.insertLocked(user); err != nil {
		return err
	}
	if dealer.ID == "" {
		dealer.ID = uuid.New().String()
	}
	dealer.UserID = user.ID
	dealer.VerificationStatus = models.VerificationPending
	cp := *dealer
	r.s.dealers[user.ID] = &cp
	return nil
}

func (r *userRepo) UpdateLastLogin(_ context.Context, userID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if u, ok := r.s.users[userID]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (r *userRepo) SetActive(_ context.Context, userID string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	u, ok := r.s.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.IsActive = active
	return nil
}

func (r *userRepo) List(_ context.Context, role string, limit, offset int) ([]models.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, 0, r.s.Err
	}
	var all []models.User
	for _, u := range r.s.users {
		if role == "" || u.Role == role {
			all = append(all, *u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

type profileRepo struct{ s *Store }

func (r *profileRepo) FarmerByUserID(_ context.Context, userID string) (*models.Farmer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if f, ok := r.s.farmers[userID]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, nil
}

func (r *profileRepo) DealerByUserID(_ context.Context, userID string) (*models.Dealer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if d, ok := r.s.dealers[userID]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (r *profileRepo) SetDealerVerification(_ context.Context, dealerID, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, d := range r.s.dealers {
		if d.ID == dealerID {
			d.VerificationStatus = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type attemptRepo struct{ s *Store }

func (r *attemptRepo) CountFailures(_ context.Context, ip, email string, since time.Time, limit int) (repositories.FailureWindow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return repositories.FailureWindow{}, r.s.Err
	}
	var times []time.Time
	for _, a := range r.s.attempts {
		if a.Success || !a.AttemptTime.After(since) {
			continue
		}
		if a.IPAddress != ip && a.Email != email {
			continue
		}
		times = append(times, a.AttemptTime)
	}
	window := repositories.FailureWindow{Failures: int64(len(times))}
	if limit > 0 && len(times) >= limit {
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
		at := times[len(times)-limit]
		window.ReleaseAt = &at
	}
	return window, nil
}

func (r *attemptRepo) Record(_ context.Context, attempt *models.LoginAttempt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	attempt.ID = uint64(len(r.s.attempts) + 1)
	r.s.attempts = append(r.s.attempts, *attempt)
	return nil
}

func (r *attemptRepo) PurgeBefore(_ context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	kept := r.s.attempts[:0]
	var removed int64
	for _, a := range r.s.attempts {
		if a.AttemptTime.Before(before) {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	r.s.attempts = kept
	return removed, nil
}

type categoryRepo struct{ s *Store }

func (r *categoryRepo) GetByID(_ context.Context, id string) (*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if c, ok := r.s.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *categoryRepo) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, c := range r.s.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *categoryRepo) ListActive(_ context.Context) ([]models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := []models.Category{}
	for _, c := range r.s.categories {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *categoryRepo) FirstOrCreate(_ context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, c := range r.s.categories {
		if c.Slug == category.Slug {
			*category = *c
			return nil
		}
	}
	cp := *category
	r.s.categories[category.ID] = &cp
	return nil
}

type productRepo struct{ s *Store }

func (r *productRepo) rowLocked(p *models.Product) (repositories.ProductRow, bool) {
	var dealer *models.Dealer
	for _, d := range r.s.dealers {
		if d.ID == p.DealerID {
			dealer = d
			break
		}
	}
	if dealer == nil {
		return repositories.ProductRow{}, false
	}
	row := repositories.ProductRow{
		Product:        *p,
		BusinessName:   dealer.BusinessName,
		DealerDistrict: dealer.District,
		DealerState:    dealer.State,
	}
	if c, ok := r.s.categories[p.CategoryID]; ok {
		row.CategoryName = c.Name
		row.CategoryType = c.Type
	}
	return row, true
}

func (r *productRepo) ListAvailable(_ context.Context, filter repositories.ProductFilter) ([]repositories.ProductRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	search := strings.ToLower(filter.Search)
	var rows []repositories.ProductRow
	for _, p := range r.s.products {
		row, ok := r.rowLocked(p)
		if !ok || !p.IsAvailable {
			continue
		}
		if d := r.dealerByIDLocked(p.DealerID); d == nil || d.VerificationStatus != models.VerificationVerified {
			continue
		}
		if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if filter.OrganicOnly && !p.IsOrganic {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		rows = append(rows, row)
	}
	sortNewestFirst(rows)
	return rows, nil
}

func (r *productRepo) dealerByIDLocked(id string) *models.Dealer {
	for _, d := range r.s.dealers {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (r *productRepo) ListByDealer(_ context.Context, dealerID string) ([]repositories.ProductRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	var rows []repositories.ProductRow
	for _, p := range r.s.products {
		if p.DealerID != dealerID {
			continue
		}
		if row, ok := r.rowLocked(p); ok {
			rows = append(rows, row)
		}
	}
	sortNewestFirst(rows)
	return rows, nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*repositories.ProductRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	row, ok := r.rowLocked(p)
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *productRepo) Create(_ context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.CreatedAt = r.s.next()
	product.UpdatedAt = product.CreatedAt
	cp := *product
	r.s.products[product.ID] = &cp
	return nil
}

func (r *productRepo) UpdateOwned(_ context.Context, id, dealerID string, updates map[string]interface{}) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	p, ok := r.s.products[id]
	if !ok || p.DealerID != dealerID {
		return false, nil
	}
	for column, value := range updates {
		switch column {
		case "product_name":
			p.Name = value.(string)
		case "category_id":
			p.CategoryID = value.(string)
		case "description":
			p.Description = value.(string)
		case "price":
			p.Price = value.(decimal.Decimal)
		case "unit":
			p.Unit = value.(string)
		case "stock_quantity":
			p.StockQuantity = value.(decimal.Decimal)
		case "min_order_quantity":
			p.MinOrderQuantity = value.(decimal.Decimal)
		case "product_image_url":
			p.ImageURL = value.(string)
		case "is_organic":
			p.IsOrganic = value.(bool)
		case "is_available":
			p.IsAvailable = value.(bool)
		}
	}
	p.UpdatedAt = r.s.next()
	return true, nil
}

func (r *productRepo) DeleteOwned(_ context.Context, id, dealerID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	p, ok := r.s.products[id]
	if !ok || p.DealerID != dealerID {
		return false, nil
	}
	delete(r.s.products, id)
	return true, nil
}

func (r *productRepo) DecrementStock(_ context.Context, id string, quantity decimal.Decimal) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	p, ok := r.s.products[id]
	if !ok || p.StockQuantity.LessThan(quantity) {
		return false, nil
	}
	p.StockQuantity = p.StockQuantity.Sub(quantity)
	return true, nil
}

func sortNewestFirst(rows []repositories.ProductRow) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
}

type weatherRepo struct{ s *Store }

func (r *weatherRepo) Forecast(_ context.Context, district, state string, from time.Time, limit int) ([]models.WeatherReading, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	day := from.Format(time.DateOnly)
	var out []models.WeatherReading
	for _, w := range r.s.weather {
		if w.District == district && w.State == state && w.ForecastDate.Format(time.DateOnly) >= day {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ForecastDate.Before(out[j].ForecastDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *weatherRepo) LatestForLocation(_ context.Context, location string, day time.Time) (*models.WeatherReading, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	var latest *models.WeatherReading
	for i := range r.s.weather {
		w := &r.s.weather[i]
		if !strings.Contains(strings.ToLower(w.Location), strings.ToLower(location)) {
			continue
		}
		if w.ForecastDate.Format(time.DateOnly) != day.Format(time.DateOnly) {
			continue
		}
		if latest == nil || w.RecordedAt.After(latest.RecordedAt) {
			latest = w
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *weatherRepo) Create(_ context.Context, reading *models.WeatherReading) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.seq++
	reading.ID = r.s.seq
	reading.RecordedAt = r.s.next()
	r.s.weather = append(r.s.weather, *reading)
	return nil
}
