package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/malabro/eshop-backend/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderRepository interface {
	PlaceOrder(ctx context.Context, order models.Order) (models.Order, error)
	GetOrderByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	GetOrderByReference(ctx context.Context, reference string) (models.Order, error)
	ListOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderListFilter) ([]models.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, notes string) (models.Order, error)
	MarkOrderPaid(ctx context.Context, id primitive.ObjectID, paymentID string) (bool, error)
	ListPaidOrders(ctx context.Context, from, to *time.Time) ([]models.Order, error)
	OrderStats(ctx context.Context) (models.DashboardStats, error)
}

type MongoOrderRepository struct {
	DB *mongo.Database
}

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &MongoOrderRepository{DB: db}
}

type reservedStock struct {
	productID   primitive.ObjectID
	quantity    int
	newQuantity int
}

// PlaceOrder reserves stock for every item, inserts the order and writes one
// "Sale" ledger entry per item. Stock already reserved is released if a later
// step fails.
func (r *MongoOrderRepository) PlaceOrder(ctx context.Context, order models.Order) (models.Order, error) {
	if len(order.Items) == 0 {
		return models.Order{}, fmt.Errorf("order has no items")
	}

	productColl := r.DB.Collection("products")
	orderColl := r.DB.Collection("orders")

	var reserved []reservedStock
	release := func() {
		rollbackCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, p := range reserved {
			if _, err := productColl.UpdateOne(rollbackCtx,
				bson.M{"_id": p.productID},
				bson.M{"$inc": bson.M{"stockQuantity": p.quantity}}); err != nil {
				logrus.WithError(err).WithField("productId", p.productID.Hex()).Error("Failed to release reserved stock")
			}
		}
	}

	for _, item := range order.Items {
		// Atomic decrement guarded by the available quantity
		var product models.Product
		err := productColl.FindOneAndUpdate(ctx,
			bson.M{"_id": item.ProductID, "stockQuantity": bson.M{"$gte": item.Quantity}},
			bson.M{
				"$inc": bson.M{"stockQuantity": -item.Quantity},
				"$set": bson.M{"updatedAt": time.Now().UTC()},
			},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&product)
		if err != nil {
			release()
			if translate(err) == ErrNotFound {
				return models.Order{}, fmt.Errorf("%w for %s", ErrInsufficientStock, item.ProductName)
			}
			return models.Order{}, err
		}
		reserved = append(reserved, reservedStock{
			productID:   item.ProductID,
			quantity:    item.Quantity,
			newQuantity: product.StockQuantity,
		})
	}

	now := time.Now().UTC()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = models.StatusPending
	}

	if _, err := orderColl.InsertOne(ctx, order); err != nil {
		logrus.WithError(err).WithField("reference", order.OrderReference).Error("Order creation failed, rolling back stock")
		release()
		return models.Order{}, translate(err)
	}

	entries := make([]interface{}, 0, len(reserved))
	for _, p := range reserved {
		orderID := order.ID
		entries = append(entries, models.InventoryLedgerEntry{
			ID:             primitive.NewObjectID(),
			ProductID:      p.productID,
			ChangeType:     models.ChangeSale,
			QuantityChange: -p.quantity,
			NewQuantity:    p.newQuantity,
			UserID:         order.UserID,
			OrderID:        &orderID,
			Notes:          "Order " + order.OrderReference,
			CreatedAt:      now,
		})
	}
	if _, err := r.DB.Collection("inventoryLedger").InsertMany(ctx, entries); err != nil {
		// the order stands; the ledger is an audit trail
		logrus.WithError(err).WithField("reference", order.OrderReference).Error("Failed to write sale ledger entries")
	}

	return order, nil
}

func (r *MongoOrderRepository) GetOrderByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	var order models.Order
	err := r.DB.Collection("orders").FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	return order, translate(err)
}

func (r *MongoOrderRepository) GetOrderByReference(ctx context.Context, reference string) (models.Order, error) {
	var order models.Order
	err := r.DB.Collection("orders").FindOne(ctx, bson.M{"orderReference": reference}).Decode(&order)
	return order, translate(err)
}

func (r *MongoOrderRepository) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return r.find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.M{"createdAt": -1}))
}

func (r *MongoOrderRepository) ListOrders(ctx context.Context, filter models.OrderListFilter) ([]models.Order, int64, error) {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	opts := options.Find().SetSkip(filter.Skip).SetLimit(filter.Limit).SetSort(bson.M{"createdAt": -1})

	orders, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.DB.Collection("orders").CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *MongoOrderRepository) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, notes string) (models.Order, error) {
	now := time.Now().UTC()
	set := bson.M{
		"status":    status,
		"updatedAt": now,
	}
	if status == models.StatusPaid {
		set["paymentConfirmedAt"] = now
	}
	if notes != "" {
		set["paymentNotes"] = notes
	}

	var order models.Order
	err := r.DB.Collection("orders").FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	return order, translate(err)
}

// markPaidFilter only matches orders still awaiting payment, so a replayed or
// late payment event cannot revive a cancelled or already handled order.
func markPaidFilter(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "status": models.StatusPending}
}

// MarkOrderPaid moves a pending order to paid and reports whether one matched.
func (r *MongoOrderRepository) MarkOrderPaid(ctx context.Context, id primitive.ObjectID, paymentID string) (bool, error) {
	now := time.Now().UTC()
	res, err := r.DB.Collection("orders").UpdateOne(ctx,
		markPaidFilter(id),
		bson.M{"$set": bson.M{
			"status":             models.StatusPaid,
			"paymentId":          paymentID,
			"paymentConfirmedAt": now,
			"updatedAt":          now,
		}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// ListPaidOrders returns orders in status "paid" created in [from, to).
// Either bound may be nil.
func (r *MongoOrderRepository) ListPaidOrders(ctx context.Context, from, to *time.Time) ([]models.Order, error) {
	query := bson.M{"status": models.StatusPaid}
	created := bson.M{}
	if from != nil {
		created["$gte"] = *from
	}
	if to != nil {
		created["$lt"] = *to
	}
	if len(created) > 0 {
		query["createdAt"] = created
	}
	return r.find(ctx, query, options.Find().SetSort(bson.M{"createdAt": -1}))
}

func (r *MongoOrderRepository) OrderStats(ctx context.Context) (models.DashboardStats, error) {
	collection := r.DB.Collection("orders")
	stats := models.DashboardStats{}

	var err error
	if stats.TotalOrders, err = collection.CountDocuments(ctx, bson.M{}); err != nil {
		return stats, err
	}
	if stats.PendingOrders, err = collection.CountDocuments(ctx, bson.M{"status": models.StatusPending}); err != nil {
		return stats, err
	}
	if stats.CompletedOrders, err = collection.CountDocuments(ctx, bson.M{"status": models.StatusPaid}); err != nil {
		return stats, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.StatusPaid}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "revenue": bson.M{"$sum": "$totalAmount"}}}},
	}
	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return stats, err
	}
	defer cursor.Close(ctx)

	var totals []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &totals); err != nil {
		return stats, err
	}
	if len(totals) > 0 {
		stats.TotalRevenue = totals[0].Revenue
	}

	stats.RecentOrders, err = r.find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(10))
	if err != nil {
		return stats, err
	}
	return stats, nil
}

func (r *MongoOrderRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Order, error) {
	cursor, err := r.DB.Collection("orders").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
