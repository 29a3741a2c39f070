package firestore

import (
	"time"

	domain "github.com/vitrina-store/api/internal/domain"
)

type attributeDocument struct {
	Name    string   `firestore:"name"`
	Options []string `firestore:"options"`
}

type variantDocument struct {
	ID     string            `firestore:"id"`
	Values map[string]string `firestore:"values"`
	Stock  int               `firestore:"stock"`
	Price  *int64            `firestore:"price,omitempty"`
}

type productDocument struct {
	Name        string              `firestore:"name"`
	Description string              `firestore:"description,omitempty"`
	Category    string              `firestore:"category,omitempty"`
	Images      []string            `firestore:"images,omitempty"`
	BasePrice   int64               `firestore:"basePrice"`
	BaseStock   int                 `firestore:"baseStock"`
	Attributes  []attributeDocument `firestore:"attributes,omitempty"`
	Variants    []variantDocument   `firestore:"variants,omitempty"`
	Rating      float64             `firestore:"rating"`
	Reviews     int                 `firestore:"reviews"`
	Featured    bool                `firestore:"featured"`
	CreatedAt   time.Time           `firestore:"createdAt"`
	UpdatedAt   time.Time           `firestore:"updatedAt"`
}

func newProductDocument(p domain.Product) productDocument {
	doc := productDocument{
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Images:      append([]string(nil), p.Images...),
		BasePrice:   p.BasePrice,
		BaseStock:   p.BaseStock,
		Rating:      p.Rating,
		Reviews:     p.Reviews,
		Featured:    p.Featured,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}
	for _, attr := range p.Attributes {
		doc.Attributes = append(doc.Attributes, attributeDocument{
			Name:    attr.Name,
			Options: append([]string(nil), attr.Options...),
		})
	}
	doc.Variants = newVariantDocuments(p.Variants)
	return doc
}

func newVariantDocuments(variants []domain.Variant) []variantDocument {
	if len(variants) == 0 {
		return nil
	}
	docs := make([]variantDocument, 0, len(variants))
	for _, v := range variants {
		docs = append(docs, variantDocument{
			ID:     v.ID,
			Values: map[string]string(v.Values.Clone()),
			Stock:  v.Stock,
			Price:  v.Price,
		})
	}
	return docs
}

func (d productDocument) toDomain(id string) domain.Product {
	product := domain.Product{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Images:      append([]string(nil), d.Images...),
		BasePrice:   d.BasePrice,
		BaseStock:   d.BaseStock,
		Rating:      d.Rating,
		Reviews:     d.Reviews,
		Featured:    d.Featured,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	for _, attr := range d.Attributes {
		product.Attributes = append(product.Attributes, domain.Attribute{
			Name:    attr.Name,
			Options: append([]string(nil), attr.Options...),
		})
	}
	for _, v := range d.Variants {
		product.Variants = append(product.Variants, domain.Variant{
			ID:     v.ID,
			Values: domain.ValueTuple(v.Values).Clone(),
			Stock:  v.Stock,
			Price:  v.Price,
		})
	}
	return product
}

type cartLineDocument struct {
	ProductID   string            `firestore:"productId"`
	ProductName string            `firestore:"productName"`
	Selection   map[string]string `firestore:"selection,omitempty"`
	Quantity    int               `firestore:"quantity"`
	UnitPrice   int64             `firestore:"unitPrice"`
	ImageURL    string            `firestore:"imageUrl,omitempty"`
	AddedAt     time.Time         `firestore:"addedAt"`
}

type cartDocument struct {
	Lines     []cartLineDocument `firestore:"lines"`
	UpdatedAt time.Time          `firestore:"updatedAt"`
}

func newCartDocument(cart domain.Cart) cartDocument {
	doc := cartDocument{UpdatedAt: cart.UpdatedAt.UTC()}
	for _, line := range cart.Lines {
		doc.Lines = append(doc.Lines, cartLineDocument{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Selection:   map[string]string(line.Selection.Clone()),
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			ImageURL:    line.ImageURL,
			AddedAt:     line.AddedAt.UTC(),
		})
	}
	return doc
}

func (d cartDocument) toDomain(userID string) domain.Cart {
	cart := domain.Cart{
		UserID:    userID,
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	for _, line := range d.Lines {
		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Selection:   domain.ValueTuple(line.Selection).Clone(),
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			ImageURL:    line.ImageURL,
			AddedAt:     line.AddedAt.UTC(),
		})
	}
	return cart
}

type orderItemDocument struct {
	ProductID   string            `firestore:"productId"`
	ProductName string            `firestore:"productName"`
	Selection   map[string]string `firestore:"selection,omitempty"`
	Quantity    int               `firestore:"quantity"`
	UnitPrice   int64             `firestore:"unitPrice"`
}

type orderTotalsDocument struct {
	Subtotal  int64 `firestore:"subtotal"`
	Shipping  int64 `firestore:"shipping"`
	Total     int64 `firestore:"total"`
	ItemCount int   `firestore:"itemCount"`
}

type addressDocument struct {
	Street  string `firestore:"street"`
	City    string `firestore:"city"`
	ZipCode string `firestore:"zipCode"`
	Country string `firestore:"country"`
}

type orderDocument struct {
	UserID          string              `firestore:"userId"`
	Status          string              `firestore:"status"`
	Items           []orderItemDocument `firestore:"items"`
	Totals          orderTotalsDocument `firestore:"totals"`
	ShippingAddress addressDocument     `firestore:"shippingAddress"`
	CreatedAt       time.Time           `firestore:"createdAt"`
	UpdatedAt       time.Time           `firestore:"updatedAt"`
}

func newOrderDocument(order domain.Order) orderDocument {
	doc := orderDocument{
		UserID: order.UserID,
		Status: string(order.Status),
		Totals: orderTotalsDocument{
			Subtotal:  order.Totals.Subtotal,
			Shipping:  order.Totals.Shipping,
			Total:     order.Totals.Total,
			ItemCount: order.Totals.ItemCount,
		},
		ShippingAddress: addressDocument{
			Street:  order.ShippingAddress.Street,
			City:    order.ShippingAddress.City,
			ZipCode: order.ShippingAddress.ZipCode,
			Country: order.ShippingAddress.Country,
		},
		CreatedAt: order.CreatedAt.UTC(),
		UpdatedAt: order.UpdatedAt.UTC(),
	}
	for _, item := range order.Items {
		doc.Items = append(doc.Items, orderItemDocument{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Selection:   map[string]string(item.Selection.Clone()),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return doc
}

func (d orderDocument) toDomain(id string) domain.Order {
	order := domain.Order{
		ID:     id,
		UserID: d.UserID,
		Status: domain.OrderStatus(d.Status),
		Totals: domain.CartTotals{
			Subtotal:  d.Totals.Subtotal,
			Shipping:  d.Totals.Shipping,
			Total:     d.Totals.Total,
			ItemCount: d.Totals.ItemCount,
		},
		ShippingAddress: domain.Address{
			Street:  d.ShippingAddress.Street,
			City:    d.ShippingAddress.City,
			ZipCode: d.ShippingAddress.ZipCode,
			Country: d.ShippingAddress.Country,
		},
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	for _, item := range d.Items {
		order.Items = append(order.Items, domain.OrderLineItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Selection:   domain.ValueTuple(item.Selection).Clone(),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return order
}
