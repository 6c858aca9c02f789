package store

import (
	"context"
	"errors"

	"pillflow-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore keeps records in PostgreSQL through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

// Migrate creates or updates the tables for every model.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(models.All()...)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func affected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, user *models.User) error {
	return affected(s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"name":       user.Name,
			"email":      user.Email,
			"updated_at": user.UpdatedAt,
		}))
}

func (s *GormStore) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return s.db.WithContext(ctx).Create(customer).Error
}

func (s *GormStore) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &customer, nil
}

func (s *GormStore) ListCustomersByCode(ctx context.Context, code string) ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.WithContext(ctx).Where("customer_code = ?", code).
		Order("created_at ASC").Find(&customers).Error
	return customers, err
}

func (s *GormStore) ListCustomersByOwner(ctx context.Context, owner uuid.UUID) ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.WithContext(ctx).Where("owner_user_id = ?", owner).
		Order("created_at ASC").Find(&customers).Error
	return customers, err
}

func (s *GormStore) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	return affected(s.db.WithContext(ctx).Select("*").Omit("created_at").
		Where("id = ?", customer.ID).Updates(customer))
}

func (s *GormStore) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return affected(s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Customer{}))
}

func (s *GormStore) DeleteCustomerCascade(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&models.Medication{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.PackCheck{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.ScanOut{}).Error; err != nil {
			return err
		}
		return affected(tx.Where("id = ?", id).Delete(&models.Customer{}))
	})
}

func (s *GormStore) CreateMedication(ctx context.Context, medication *models.Medication) error {
	return s.db.WithContext(ctx).Create(medication).Error
}

func (s *GormStore) GetMedication(ctx context.Context, id uuid.UUID) (*models.Medication, error) {
	var medication models.Medication
	if err := s.db.WithContext(ctx).First(&medication, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &medication, nil
}

func (s *GormStore) ListMedicationsByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Medication, error) {
	var medications []models.Medication
	err := s.db.WithContext(ctx).Where("customer_id = ?", customerID).
		Order("created_at DESC").Find(&medications).Error
	return medications, err
}

func (s *GormStore) CountActiveMedications(ctx context.Context, owner uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Medication{}).
		Where("owner_user_id = ? AND is_active = ?", owner, true).Count(&n).Error
	return n, err
}

func (s *GormStore) UpdateMedication(ctx context.Context, medication *models.Medication) error {
	return affected(s.db.WithContext(ctx).Select("*").Omit("created_at").
		Where("id = ?", medication.ID).Updates(medication))
}

func (s *GormStore) DeleteMedication(ctx context.Context, id uuid.UUID) error {
	return affected(s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Medication{}))
}

func (s *GormStore) CreateTeamMember(ctx context.Context, member *models.TeamMember) error {
	return s.db.WithContext(ctx).Create(member).Error
}

func (s *GormStore) GetTeamMember(ctx context.Context, id uuid.UUID) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := s.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &member, nil
}

func (s *GormStore) FindTeamMemberByInitials(ctx context.Context, owner uuid.UUID, initials string) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := s.db.WithContext(ctx).Where("owner_user_id = ? AND initials = ?", owner, initials).
		First(&member).Error; err != nil {
		return nil, notFound(err)
	}
	return &member, nil
}

func (s *GormStore) ListTeamMembersByOwner(ctx context.Context, owner uuid.UUID) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := s.db.WithContext(ctx).Where("owner_user_id = ?", owner).
		Order("created_at DESC").Find(&members).Error
	return members, err
}

func (s *GormStore) UpdateTeamMember(ctx context.Context, member *models.TeamMember) error {
	return affected(s.db.WithContext(ctx).Select("*").Omit("created_at").
		Where("id = ?", member.ID).Updates(member))
}

func (s *GormStore) DeleteTeamMember(ctx context.Context, id uuid.UUID) error {
	return affected(s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.TeamMember{}))
}

func (s *GormStore) CreatePackCheck(ctx context.Context, check *models.PackCheck) error {
	return s.db.WithContext(ctx).Create(check).Error
}

func (s *GormStore) ListPackChecks(ctx context.Context, filter PackCheckFilter) ([]models.PackCheck, error) {
	q := s.db.WithContext(ctx).Model(&models.PackCheck{})
	if filter.OwnerUserID != uuid.Nil {
		q = q.Joins("JOIN customers ON customers.id = pack_checks.customer_id").
			Where("customers.owner_user_id = ?", filter.OwnerUserID)
	}
	if !filter.CreatedSince.IsZero() {
		q = q.Where("pack_checks.created_at >= ?", filter.CreatedSince)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var checks []models.PackCheck
	err := q.Select("pack_checks.*").Order("pack_checks.created_at DESC").Find(&checks).Error
	return checks, err
}

func (s *GormStore) FindPackCheck(ctx context.Context, customerID uuid.UUID, websterPackID string) (*models.PackCheck, error) {
	var check models.PackCheck
	if err := s.db.WithContext(ctx).
		Where("customer_id = ? AND webster_pack_id = ?", customerID, websterPackID).
		Order("created_at ASC").First(&check).Error; err != nil {
		return nil, notFound(err)
	}
	return &check, nil
}

func (s *GormStore) CreateScanOut(ctx context.Context, scanOut *models.ScanOut) error {
	return s.db.WithContext(ctx).Create(scanOut).Error
}

func (s *GormStore) GetScanOut(ctx context.Context, id uuid.UUID) (*models.ScanOut, error) {
	var scanOut models.ScanOut
	if err := s.db.WithContext(ctx).First(&scanOut, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &scanOut, nil
}

func (s *GormStore) ListScanOuts(ctx context.Context, filter ScanOutFilter) ([]models.ScanOut, error) {
	q := s.db.WithContext(ctx).Model(&models.ScanOut{})
	if filter.OwnerUserID != uuid.Nil {
		q = q.Joins("JOIN customers ON customers.id = scan_outs.customer_id").
			Where("customers.owner_user_id = ?", filter.OwnerUserID)
	}
	if filter.Status != "" {
		q = q.Where("scan_outs.status = ?", filter.Status)
	}
	if !filter.CreatedBefore.IsZero() {
		q = q.Where("scan_outs.created_at < ?", filter.CreatedBefore)
	}
	if !filter.UpdatedSince.IsZero() {
		q = q.Where("scan_outs.updated_at >= ?", filter.UpdatedSince)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var scanOuts []models.ScanOut
	err := q.Select("scan_outs.*").Order("scan_outs.created_at DESC").Find(&scanOuts).Error
	return scanOuts, err
}

func (s *GormStore) UpdateScanOut(ctx context.Context, scanOut *models.ScanOut) error {
	return affected(s.db.WithContext(ctx).Select("*").Omit("created_at").
		Where("id = ?", scanOut.ID).Updates(scanOut))
}

func (s *GormStore) CreateReminderLog(ctx context.Context, entry *models.DeliveryReminderLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *GormStore) ReminderSent(ctx context.Context, scanOutID uuid.UUID) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.DeliveryReminderLog{}).
		Where("scan_out_id = ? AND status = ?", scanOutID, "sent").Count(&n).Error
	return n > 0, err
}
