package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/anycompany/carmarket/internal/domain/entity"
)

// Records mirror db/migrations. Entities stay free of persistence tags.

// Base carries the columns every mutable table shares.
type Base struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

type userRecord struct {
	Base
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null"`
}

func (userRecord) TableName() string { return "users" }

// ProfileColumns are the personal fields shared by buyers, sellers and staff.
type ProfileColumns struct {
	FirstName string `gorm:"not null"`
	LastName  string
	Phone     string
	Avatar    string
	City      string
}

type buyerRecord struct {
	Base
	UserID string     `gorm:"type:uuid;uniqueIndex;not null"`
	User   userRecord `gorm:"foreignKey:UserID"`
	ProfileColumns
}

func (buyerRecord) TableName() string { return "buyers" }

type sellerRecord struct {
	Base
	UserID string     `gorm:"type:uuid;uniqueIndex;not null"`
	User   userRecord `gorm:"foreignKey:UserID"`
	ProfileColumns
	AccountType  string `gorm:"not null;default:basic"`
	PremiumUntil *time.Time
}

func (sellerRecord) TableName() string { return "sellers" }

type carRecord struct {
	Base
	SellerID    string          `gorm:"type:uuid;index;not null"`
	Make        string          `gorm:"not null"`
	Model       string          `gorm:"not null"`
	Year        int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Currency    string          `gorm:"not null"`
	Mileage     int
	Description string
	Region      string
	Active      bool             `gorm:"not null"`
	Images      []carImageRecord `gorm:"foreignKey:CarID"`
}

func (carRecord) TableName() string { return "cars" }

type carImageRecord struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	CarID     string `gorm:"type:uuid;index;not null"`
	URL       string `gorm:"not null"`
	Position  int    `gorm:"not null"`
	CreatedAt time.Time
}

func (carImageRecord) TableName() string { return "car_images" }

func (r *carImageRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type wishlistRecord struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	BuyerID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_buyer_car"`
	CarID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_buyer_car"`
	Car       carRecord `gorm:"foreignKey:CarID"`
	CreatedAt time.Time
}

func (wishlistRecord) TableName() string { return "wishlist_items" }

func (r *wishlistRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type showroomRecord struct {
	Base
	Name    string `gorm:"uniqueIndex;not null"`
	City    string
	Address string
	Phone   string
}

func (showroomRecord) TableName() string { return "showrooms" }

type staffRecord struct {
	Base
	UserID     string     `gorm:"type:uuid;uniqueIndex;not null"`
	User       userRecord `gorm:"foreignKey:UserID"`
	Scope      string     `gorm:"not null;index:idx_staff_family"`
	Role       string     `gorm:"not null;index:idx_staff_family"`
	ShowroomID *string    `gorm:"type:uuid;index:idx_staff_family"`
	ProfileColumns
}

func (staffRecord) TableName() string { return "staff_members" }

// AutoMigrate creates the schema from the records; tests use it instead of SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userRecord{},
		&buyerRecord{},
		&sellerRecord{},
		&carRecord{},
		&carImageRecord{},
		&wishlistRecord{},
		&showroomRecord{},
		&staffRecord{},
	)
}

// ---- mapping ----

func userToRecord(u *entity.User) userRecord {
	return userRecord{
		Base:         Base{ID: u.ID, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt},
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
	}
}

func userFromRecord(r userRecord) *entity.User {
	return &entity.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         entity.Role(r.Role),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func profileToColumns(p entity.Profile) ProfileColumns {
	return ProfileColumns{FirstName: p.FirstName, LastName: p.LastName, Phone: p.Phone, Avatar: p.Avatar, City: p.City}
}

func profileFromColumns(c ProfileColumns) entity.Profile {
	return entity.Profile{FirstName: c.FirstName, LastName: c.LastName, Phone: c.Phone, Avatar: c.Avatar, City: c.City}
}

func buyerToRecord(b *entity.Buyer) buyerRecord {
	return buyerRecord{
		Base:           Base{ID: b.ID, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt},
		UserID:         b.UserID,
		ProfileColumns: profileToColumns(b.Profile),
	}
}

func buyerFromRecord(r buyerRecord) entity.Buyer {
	return entity.Buyer{
		ID:        r.ID,
		UserID:    r.UserID,
		Email:     r.User.Email,
		Profile:   profileFromColumns(r.ProfileColumns),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func sellerToRecord(s *entity.Seller) sellerRecord {
	acct := string(s.AccountType)
	if acct == "" {
		acct = string(entity.AccountBasic)
	}
	return sellerRecord{
		Base:           Base{ID: s.ID, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt},
		UserID:         s.UserID,
		ProfileColumns: profileToColumns(s.Profile),
		AccountType:    acct,
		PremiumUntil:   s.PremiumUntil,
	}
}

func sellerFromRecord(r sellerRecord) entity.Seller {
	return entity.Seller{
		ID:           r.ID,
		UserID:       r.UserID,
		Email:        r.User.Email,
		Profile:      profileFromColumns(r.ProfileColumns),
		AccountType:  entity.AccountType(r.AccountType),
		PremiumUntil: r.PremiumUntil,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func carToRecord(c *entity.Car) carRecord {
	return carRecord{
		Base:        Base{ID: c.ID, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt},
		SellerID:    c.SellerID,
		Make:        c.Make,
		Model:       c.Model,
		Year:        c.Year,
		Price:       c.Price,
		Currency:    string(c.Currency),
		Mileage:     c.Mileage,
		Description: c.Description,
		Region:      c.Region,
		Active:      c.Active,
	}
}

func carFromRecord(r carRecord) entity.Car {
	images := make([]entity.CarImage, 0, len(r.Images))
	for _, img := range r.Images {
		images = append(images, imageFromRecord(img))
	}
	return entity.Car{
		ID:          r.ID,
		SellerID:    r.SellerID,
		Make:        r.Make,
		Model:       r.Model,
		Year:        r.Year,
		Price:       r.Price,
		Currency:    entity.Currency(r.Currency),
		Mileage:     r.Mileage,
		Description: r.Description,
		Region:      r.Region,
		Active:      r.Active,
		Images:      images,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func imageFromRecord(r carImageRecord) entity.CarImage {
	return entity.CarImage{ID: r.ID, CarID: r.CarID, URL: r.URL, Position: r.Position, CreatedAt: r.CreatedAt}
}

func showroomToRecord(s *entity.Showroom) showroomRecord {
	return showroomRecord{
		Base:    Base{ID: s.ID, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt},
		Name:    s.Name,
		City:    s.City,
		Address: s.Address,
		Phone:   s.Phone,
	}
}

func showroomFromRecord(r showroomRecord) entity.Showroom {
	return entity.Showroom{
		ID:        r.ID,
		Name:      r.Name,
		City:      r.City,
		Address:   r.Address,
		Phone:     r.Phone,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func staffToRecord(m *entity.StaffMember) staffRecord {
	var showroomID *string
	if m.ShowroomID != "" {
		id := m.ShowroomID
		showroomID = &id
	}
	return staffRecord{
		Base:           Base{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		UserID:         m.UserID,
		Scope:          string(m.Scope),
		Role:           string(m.Role),
		ShowroomID:     showroomID,
		ProfileColumns: profileToColumns(m.Profile),
	}
}

func staffFromRecord(r staffRecord) entity.StaffMember {
	m := entity.StaffMember{
		ID:        r.ID,
		UserID:    r.UserID,
		Email:     r.User.Email,
		Scope:     entity.Scope(r.Scope),
		Role:      entity.Role(r.Role),
		Profile:   profileFromColumns(r.ProfileColumns),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.ShowroomID != nil {
		m.ShowroomID = *r.ShowroomID
	}
	return m
}
