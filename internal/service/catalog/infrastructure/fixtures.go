// internal/service/catalog/infrastructure/fixtures.go
package infrastructure

import "flashmart/internal/service/catalog/domain"

// DemoProducts 返回演示用的商品目录，供 cmd/seed 和内存模式启动时加载。
func DemoProducts() []*domain.Product {
	return []*domain.Product{
		{Name: "Wireless Earbuds Pro", Description: "Premium wireless earbuds with active noise cancellation and 30-hour battery life", Category: domain.CategoryElectronics, Price: 129.99, Stock: 45, Emoji: "🎧"},
		{Name: "Smart Watch Ultra", Description: "Advanced fitness tracking, heart rate monitor, and GPS navigation", Category: domain.CategoryElectronics, Price: 399.99, Stock: 23, Emoji: "⌚"},
		{Name: "Gaming Keyboard RGB", Description: "Mechanical gaming keyboard with customizable RGB lighting", Category: domain.CategoryElectronics, Price: 89.99, Stock: 67, Emoji: "⌨️"},
		{Name: "4K Webcam", Description: "Ultra HD webcam with auto-focus and built-in microphone", Category: domain.CategoryElectronics, Price: 149.99, Stock: 34, Emoji: "📷"},
		{Name: "Wireless Mouse Pro", Description: "Ergonomic wireless mouse with precision tracking", Category: domain.CategoryElectronics, Price: 59.99, Stock: 78, Emoji: "🖱️"},
		{Name: "Running Shoes Elite", Description: "Professional running shoes with advanced cushioning technology", Category: domain.CategorySports, Price: 159.99, Stock: 12, Emoji: "👟"},
		{Name: "Yoga Mat Premium", Description: "Extra thick yoga mat with non-slip surface", Category: domain.CategorySports, Price: 49.99, Stock: 89, Emoji: "🧘"},
		{Name: "Protein Powder 2kg", Description: "Whey protein isolate with 25g protein per serving", Category: domain.CategorySports, Price: 59.99, Stock: 56, Emoji: "💪"},
		{Name: "Basketball Official Size", Description: "Official size basketball with premium grip", Category: domain.CategorySports, Price: 39.99, Stock: 41, Emoji: "🏀"},
		{Name: "Leather Jacket", Description: "Genuine leather jacket with classic design", Category: domain.CategoryFashion, Price: 299.99, Stock: 8, Emoji: "🧥"},
		{Name: "Designer Sunglasses", Description: "Polarized designer sunglasses with UV protection", Category: domain.CategoryFashion, Price: 179.99, Stock: 28, Emoji: "🕶️"},
		{Name: "Cotton T-Shirt Pack", Description: "Pack of 3 premium cotton t-shirts", Category: domain.CategoryFashion, Price: 49.99, Stock: 95, Emoji: "👕"},
		{Name: "Designer Handbag", Description: "Luxury handbag with premium materials", Category: domain.CategoryFashion, Price: 249.99, Stock: 15, Emoji: "👜"},
		{Name: "Ceramic Cookware Set", Description: "Non-stick ceramic cookware set - 10 pieces", Category: domain.CategoryHome, Price: 199.99, Stock: 41, Emoji: "🍳"},
		{Name: "Coffee Maker Deluxe", Description: "Programmable coffee maker with thermal carafe", Category: domain.CategoryHome, Price: 129.99, Stock: 52, Emoji: "☕"},
		{Name: "Smart LED Bulbs (4pk)", Description: "WiFi enabled smart bulbs with color changing", Category: domain.CategoryHome, Price: 44.99, Stock: 98, Emoji: "💡"},
		{Name: "Modern Sofa", Description: "Comfortable 3-seater sofa with premium fabric", Category: domain.CategoryHome, Price: 799.99, Stock: 7, Emoji: "🛋️"},
	}
}
