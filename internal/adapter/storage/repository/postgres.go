package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/runecoins/coinstore/internal/adapter/storage"
	"github.com/runecoins/coinstore/internal/core/domain"
)

type Repository struct {
	db *storage.DB
}

func NewRepository(db *storage.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

var orderColumns = []string{
	"id", "type", "character_name", "server_id", "package_id",
	"quantity", "total_price", "status", "payment_method", "contact_info",
	"gateway_order_id", "gateway_charge_id", "pix_qr_code", "pix_qr_code_url",
	"customer_name", "customer_email", "customer_phone",
	"pix_key", "pix_account_holder", "store_screenshot", "market_screenshot",
	"created_at",
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order                         domain.Order
		paymentMethod, contactInfo    *string
		gatewayOrderID, gatewayCharge *string
		pixQrCode, pixQrCodeURL       *string
		custName, custEmail, custTel  *string
		pixKey, pixHolder             *string
		storeShot, marketShot         *string
	)

	err := row.Scan(
		&order.ID,
		&order.Type,
		&order.CharacterName,
		&order.ServerID,
		&order.PackageID,
		&order.Quantity,
		&order.TotalPrice,
		&order.Status,
		&paymentMethod,
		&contactInfo,
		&gatewayOrderID,
		&gatewayCharge,
		&pixQrCode,
		&pixQrCodeURL,
		&custName,
		&custEmail,
		&custTel,
		&pixKey,
		&pixHolder,
		&storeShot,
		&marketShot,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.PaymentMethod = domain.PaymentMethod(deref(paymentMethod))
	order.ContactInfo = deref(contactInfo)
	order.Customer = domain.Customer{
		Name:  deref(custName),
		Email: deref(custEmail),
		Phone: deref(custTel),
	}
	if gatewayCharge != nil || gatewayOrderID != nil {
		order.Payment = &domain.PaymentDetails{
			GatewayOrderID:  deref(gatewayOrderID),
			GatewayChargeID: deref(gatewayCharge),
			PixQrCode:       deref(pixQrCode),
			PixQrCodeURL:    deref(pixQrCodeURL),
		}
	}
	if pixKey != nil || storeShot != nil || marketShot != nil {
		order.Evidence = &domain.SellEvidence{
			PixKey:           deref(pixKey),
			PixAccountHolder: deref(pixHolder),
			StoreScreenshot:  deref(storeShot),
			MarketScreenshot: deref(marketShot),
		}
	}

	return &order, nil
}

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}

	payment := order.Payment
	if payment == nil {
		payment = &domain.PaymentDetails{}
	}
	evidence := order.Evidence
	if evidence == nil {
		evidence = &domain.SellEvidence{}
	}

	statement := r.db.QueryBuilder.Insert("orders").
		Columns(orderColumns[:len(orderColumns)-1]...).
		Values(
			order.ID,
			order.Type,
			order.CharacterName,
			order.ServerID,
			order.PackageID,
			order.Quantity,
			order.TotalPrice,
			order.Status,
			nullable(string(order.PaymentMethod)),
			nullable(order.ContactInfo),
			nullable(payment.GatewayOrderID),
			nullable(payment.GatewayChargeID),
			nullable(payment.PixQrCode),
			nullable(payment.PixQrCodeURL),
			nullable(order.Customer.Name),
			nullable(order.Customer.Email),
			nullable(order.Customer.Phone),
			nullable(evidence.PixKey),
			nullable(evidence.PixAccountHolder),
			nullable(evidence.StoreScreenshot),
			nullable(evidence.MarketScreenshot),
		).
		Suffix("RETURNING created_at")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&order.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}
	return order, nil
}

func (r *Repository) readOrderWhere(ctx context.Context, cond sq.Eq) (*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(cond)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *Repository) ReadOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return r.readOrderWhere(ctx, sq.Eq{"id": orderID})
}

func (r *Repository) ReadOrderByChargeID(ctx context.Context, chargeID string) (*domain.Order, error) {
	return r.readOrderWhere(ctx, sq.Eq{"gateway_charge_id": chargeID})
}

func (r *Repository) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, order)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (r *Repository) AttachPayment(ctx context.Context, orderID string,
	payment *domain.PaymentDetails, status domain.OrderStatus) error {
	statement := r.db.QueryBuilder.Update("orders").
		Set("gateway_order_id", nullable(payment.GatewayOrderID)).
		Set("gateway_charge_id", nullable(payment.GatewayChargeID)).
		Set("pix_qr_code", nullable(payment.PixQrCode)).
		Set("pix_qr_code_url", nullable(payment.PixQrCodeURL)).
		Set("status", status).
		Where(sq.Eq{"id": orderID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDataNotFound
	}
	return nil
}

// UpdateOrderStatus is a single conditional update so that a webhook and
// a poll racing on the same order cannot apply a backward move.
func (r *Repository) UpdateOrderStatus(ctx context.Context, orderID string,
	from []domain.OrderStatus, target domain.OrderStatus) (bool, error) {
	statement := r.db.QueryBuilder.Update("orders").
		Set("status", target).
		Where(sq.Eq{"id": orderID, "status": from})

	sql, args, err := statement.ToSql()
	if err != nil {
		return false, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteOrder refuses paid and completed orders at the SQL level as well,
// so the check holds even against a concurrent payment confirmation.
func (r *Repository) DeleteOrder(ctx context.Context, orderID string) error {
	statement := r.db.QueryBuilder.Delete("orders").
		Where(sq.Eq{"id": orderID}).
		Where(sq.NotEq{"status": []domain.OrderStatus{domain.OrderStatusPaid, domain.OrderStatusCompleted}})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDataNotFound
	}
	return nil
}

func (r *Repository) OrderStats(ctx context.Context) (*domain.OrderStats, error) {
	statement := r.db.QueryBuilder.
		Select("status", "count(*)").
		From("orders").
		GroupBy("status")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := domain.OrderStats{
		ByStatus:     make(map[domain.OrderStatus]int64),
		TotalRevenue: decimal.Zero,
	}
	for rows.Next() {
		var status domain.OrderStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
		stats.TotalOrders += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	stats.PendingOrders = stats.ByStatus[domain.OrderStatusPending]

	revenue := r.db.QueryBuilder.
		Select("coalesce(sum(total_price), 0)").
		From("orders").
		Where(sq.Eq{"status": []domain.OrderStatus{
			domain.OrderStatusPaid, domain.OrderStatusCompleted,
		}})

	sql, args, err = revenue.ToSql()
	if err != nil {
		return nil, err
	}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&stats.TotalRevenue)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	statement := r.db.QueryBuilder.
		Insert("users").
		Columns("id", "username", "password", "email", "full_name", "phone", "role").
		Values(user.ID, user.Username, user.Password,
			nullable(user.Email), nullable(user.FullName), nullable(user.Phone), user.Role).
		Suffix("RETURNING created_at")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}

	return user, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var email, fullName, phone *string
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&email,
		&fullName,
		&phone,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Email = deref(email)
	user.FullName = deref(fullName)
	user.Phone = deref(phone)
	return &user, nil
}

var userColumns = []string{"id", "username", "password", "email", "full_name", "phone", "role", "created_at"}

func (r *Repository) readUserWhere(ctx context.Context, cond sq.Eq) (*domain.User, error) {
	statement := r.db.QueryBuilder.
		Select(userColumns...).
		From("users").
		Where(cond)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *Repository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return r.readUserWhere(ctx, sq.Eq{"id": id})
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.readUserWhere(ctx, sq.Eq{"username": username})
}

func (r *Repository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	statement := r.db.QueryBuilder.
		Select(userColumns...).
		From("users").
		OrderBy("created_at")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) GetPackage(ctx context.Context, id string) (*domain.CoinPackage, error) {
	statement := r.db.QueryBuilder.
		Select("id", "name", "description", "price_per_unit", "min_quantity", "max_quantity",
			"image_url", "active", "featured").
		From("coin_packages").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	var pkg domain.CoinPackage
	var imageURL *string
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&pkg.ID,
		&pkg.Name,
		&pkg.Description,
		&pkg.PricePerUnit,
		&pkg.MinQuantity,
		&pkg.MaxQuantity,
		&imageURL,
		&pkg.Active,
		&pkg.Featured,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	pkg.ImageURL = deref(imageURL)
	return &pkg, nil
}

func (r *Repository) ListPackages(ctx context.Context, activeOnly bool) ([]*domain.CoinPackage, error) {
	statement := r.db.QueryBuilder.
		Select("id", "name", "description", "price_per_unit", "min_quantity", "max_quantity",
			"image_url", "active", "featured").
		From("coin_packages").
		OrderBy("featured DESC", "name")
	if activeOnly {
		statement = statement.Where(sq.Eq{"active": true})
	}

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.CoinPackage, 0)
	for rows.Next() {
		var pkg domain.CoinPackage
		var imageURL *string
		err := rows.Scan(
			&pkg.ID,
			&pkg.Name,
			&pkg.Description,
			&pkg.PricePerUnit,
			&pkg.MinQuantity,
			&pkg.MaxQuantity,
			&imageURL,
			&pkg.Active,
			&pkg.Featured,
		)
		if err != nil {
			return nil, err
		}
		pkg.ImageURL = deref(imageURL)
		list = append(list, &pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) ListServers(ctx context.Context, activeOnly bool) ([]*domain.Server, error) {
	statement := r.db.QueryBuilder.
		Select("id", "name", "active").
		From("servers").
		OrderBy("name")
	if activeOnly {
		statement = statement.Where(sq.Eq{"active": true})
	}

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Server, 0)
	for rows.Next() {
		var server domain.Server
		if err := rows.Scan(&server.ID, &server.Name, &server.Active); err != nil {
			return nil, err
		}
		list = append(list, &server)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
