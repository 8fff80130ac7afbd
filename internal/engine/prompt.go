package engine

// extractionPrompt instructs the engines what to pull from a category page.
const extractionPrompt = `Extract all product information including:
- Item type (Phone/Tablet/Computer)
- Manufacturer
- Product name
- SKU
- Stock quantity
- Cost/Price
- Status
- Condition

Important: Make sure to extract all available information from the product listings.
If pagination is present, analyze all pages.
If a product has multiple variants, list each separately.
Format the data according to the provided schema.`

// inventorySchemaJSON is the JSON Schema handed to engines so extraction
// output matches model.Inventory.
const inventorySchemaJSON = `{
  "type": "object",
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "item_type":    {"type": "string", "description": "Type of item (Phone/Tablet/Computer)"},
          "manufacturer": {"type": "string", "description": "Manufacturer/Brand name"},
          "name":         {"type": "string", "description": "Product name"},
          "sku":          {"type": "string", "description": "Product SKU/ID"},
          "instock_qty":  {"type": ["integer", "null"], "description": "Available quantity in stock"},
          "cost":         {"type": ["number", "null"], "description": "Product cost"},
          "price":        {"type": ["number", "null"], "description": "Product price"},
          "status":       {"type": ["string", "null"], "description": "Product status"},
          "condition":    {"type": ["string", "null"], "description": "Product condition"},
          "supplier":     {"type": "string", "description": "Supplier name"}
        },
        "required": ["item_type", "manufacturer", "name", "sku"]
      }
    }
  },
  "required": ["items"]
}`

// defaultHeaders are sent with engine requests against the target site.
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
	"Connection":      "keep-alive",
}
